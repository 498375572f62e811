package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/invoicely/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func paidInvoice(t *testing.T, ownerID uuid.UUID, number string, currency valueobject.Currency, rate int64, issueDate time.Time) billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(ownerID, number, nil, issueDate, issueDate.AddDate(0, 1, 0), currency)
	require.NoError(t, err)
	_, err = inv.AddItem("Work", decimal.NewFromInt(1), decimal.NewFromInt(rate))
	require.NoError(t, err)
	require.NoError(t, inv.TransitionTo(billing.InvoiceStatusSent, issueDate))
	require.NoError(t, inv.TransitionTo(billing.InvoiceStatusPaid, issueDate))
	return *inv
}

func TestStatsService_Summary(t *testing.T) {
	ownerID := uuid.New()
	now := time.Now()

	invoiceRepo := new(MockInvoiceRepository)
	service := NewStatsService(invoiceRepo)

	paid := paidInvoice(t, ownerID, "INV-0001", valueobject.USD, 100, now.AddDate(0, 0, -5))

	pending := testDraftInvoice(t, ownerID, "INV-0002")
	require.NoError(t, pending.TransitionTo(billing.InvoiceStatusSent, now))
	pending.DueDate = now.AddDate(0, 0, 14)

	lapsed := testDraftInvoice(t, ownerID, "INV-0003")
	require.NoError(t, lapsed.TransitionTo(billing.InvoiceStatusSent, now))
	lapsed.DueDate = now.AddDate(0, 0, -3)

	draft := testDraftInvoice(t, ownerID, "INV-0004")

	invoiceRepo.On("FindAllForOwner", mock.Anything, ownerID, mock.Anything).
		Return([]billing.Invoice{paid, *pending, *lapsed, *draft}, nil)

	stats, err := service.Summary(context.Background(), ownerID)
	require.NoError(t, err)

	assert.Equal(t, "100.00", stats.USD.Revenue.StringFixed(2))
	assert.Equal(t, 1, stats.USD.RevenueCount)
	assert.Equal(t, "200.00", stats.USD.Pending.StringFixed(2))
	assert.Equal(t, 1, stats.USD.PendingCount)
	assert.Equal(t, "200.00", stats.USD.Overdue.StringFixed(2))
	assert.Equal(t, 1, stats.USD.OverdueCount)
	assert.True(t, stats.IDR.Revenue.IsZero())
}

func TestStatsService_Revenue(t *testing.T) {
	ownerID := uuid.New()
	now := time.Now()

	invoiceRepo := new(MockInvoiceRepository)
	service := NewStatsService(invoiceRepo)

	thisMonth := paidInvoice(t, ownerID, "INV-0001", valueobject.IDR, 500000, now)
	tooOld := paidInvoice(t, ownerID, "INV-0002", valueobject.USD, 75, now.AddDate(0, -8, 0))

	invoiceRepo.On("FindAllForOwner", mock.Anything, ownerID, mock.Anything).
		Return([]billing.Invoice{thisMonth, tooOld}, nil)

	series, err := service.Revenue(context.Background(), ownerID)
	require.NoError(t, err)

	require.Len(t, series, 6)
	assert.Equal(t, now.Format("Jan"), series[5].Month)
	assert.Equal(t, "500000.00", series[5].IDR.StringFixed(2))
	for _, entry := range series {
		assert.True(t, entry.USD.IsZero())
	}
}
