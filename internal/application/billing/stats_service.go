package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/invoicely/backend/internal/domain/shared"
)

// StatsService computes dashboard aggregates over an owner's invoices
type StatsService struct {
	invoiceRepo billing.InvoiceRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(invoiceRepo billing.InvoiceRepository) *StatsService {
	return &StatsService{
		invoiceRepo: invoiceRepo,
	}
}

// Summary rolls the owner's invoices up into per-currency revenue, pending
// and overdue buckets keyed on the status as displayed right now
func (s *StatsService) Summary(ctx context.Context, ownerID uuid.UUID) (*billing.InvoiceStats, error) {
	invoices, err := s.allInvoices(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := billing.CalculateStats(invoices, time.Now())
	return &stats, nil
}

// Revenue returns the paid-revenue series for the current month and the
// five before it
func (s *StatsService) Revenue(ctx context.Context, ownerID uuid.UUID) ([]billing.RevenueEntry, error) {
	invoices, err := s.allInvoices(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return billing.LastSixMonthsRevenue(invoices, time.Now()), nil
}

// allInvoices loads every invoice the owner has. PageSize 0 disables
// pagination in the repository.
func (s *StatsService) allInvoices(ctx context.Context, ownerID uuid.UUID) ([]billing.Invoice, error) {
	filter := shared.Filter{
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
	return s.invoiceRepo.FindAllForOwner(ctx, ownerID, filter)
}
