package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/invoicely/backend/internal/domain/directory"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/invoicely/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice-related business operations. Every method
// takes the acting user's ID explicitly and only ever touches that user's
// records.
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	clientRepo  directory.ClientRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, clientRepo directory.ClientRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

// Create creates a new draft invoice. The invoice number is produced from
// the owner's current invoice count, then the header and items are persisted
// in one transaction by the repository.
func (s *InvoiceService) Create(ctx context.Context, ownerID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	issueDate, dueDate, err := parseDates(req.Date, req.DueDate)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		if _, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, *req.ClientID); err != nil {
			return nil, err
		}
	}

	number, err := s.invoiceRepo.NextInvoiceNumber(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	inv, err := billing.NewInvoice(ownerID, number, req.ClientID, issueDate, dueDate, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}
	if err := s.applyFinancials(inv, req.TaxRate, req.Discount, req.DiscountType, req.Items); err != nil {
		return nil, err
	}
	inv.SetNotes(req.Notes, req.Terms)

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv, time.Now())
	return &response, nil
}

// GetByID retrieves one of the owner's invoices with its derived status
func (s *InvoiceService) GetByID(ctx context.Context, ownerID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv, time.Now())
	return &response, nil
}

// List retrieves the owner's invoices with filtering and pagination.
// Statuses in the result are derived against a single reference time so a
// page renders consistently.
func (s *InvoiceService) List(ctx context.Context, ownerID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		status := billing.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError(fmt.Sprintf("invalid status filter: %s", filter.Status))
		}
		domainFilter.Filters["status"] = status.String()
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}

	invoices, err := s.invoiceRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceResponses(invoices, time.Now()), total, nil
}

// Update rewrites a draft invoice: header fields, financials and the full
// item set. The repository deletes the old items and inserts the new ones
// in the same transaction as the header write.
func (s *InvoiceService) Update(ctx context.Context, ownerID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	issueDate, dueDate, err := parseDates(req.Date, req.DueDate)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		if _, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, *req.ClientID); err != nil {
			return nil, err
		}
	}

	if err := inv.UpdateDetails(req.ClientID, issueDate, dueDate, req.Notes, req.Terms); err != nil {
		return nil, err
	}
	if err := s.applyFinancials(inv, req.TaxRate, req.Discount, req.DiscountType, req.Items); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv, time.Now())
	return &response, nil
}

// UpdateStatus moves an invoice along its lifecycle
func (s *InvoiceService) UpdateStatus(ctx context.Context, ownerID, invoiceID uuid.UUID, req UpdateInvoiceStatusRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.TransitionTo(billing.InvoiceStatus(req.Status), time.Now()); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv, time.Now())
	return &response, nil
}

// Delete removes one of the owner's invoices along with its items
func (s *InvoiceService) Delete(ctx context.Context, ownerID, invoiceID uuid.UUID) error {
	return s.invoiceRepo.DeleteForOwner(ctx, ownerID, invoiceID)
}

func (s *InvoiceService) applyFinancials(inv *billing.Invoice, taxRate, discount float64, discountType string, items []InvoiceItemRequest) error {
	if err := inv.SetTaxRate(decimal.NewFromFloat(taxRate)); err != nil {
		return err
	}
	if err := inv.SetDiscount(decimal.NewFromFloat(discount), billing.DiscountType(discountType)); err != nil {
		return err
	}

	inputs := make([]billing.ItemInput, len(items))
	for i, item := range items {
		inputs[i] = billing.ItemInput{
			Description: item.Description,
			Quantity:    decimal.NewFromFloat(item.Quantity),
			Rate:        decimal.NewFromFloat(item.Rate),
		}
	}
	return inv.ReplaceItems(inputs)
}

func parseDates(date, dueDate string) (time.Time, time.Time, error) {
	issueDate, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewValidationError(fmt.Sprintf("invalid date: %s", date))
	}
	due, err := time.Parse(DateLayout, dueDate)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewValidationError(fmt.Sprintf("invalid due date: %s", dueDate))
	}
	return issueDate, due, nil
}
