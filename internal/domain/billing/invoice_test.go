package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/invoicely/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	ownerID := uuid.New()
	clientID := uuid.New()
	issue := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 30)
	inv, err := NewInvoice(ownerID, "INV-0001", &clientID, issue, due, valueobject.USD)
	require.NoError(t, err)
	return inv
}

func addTestItem(t *testing.T, inv *Invoice, description string, quantity, rate float64) *InvoiceItem {
	t.Helper()
	item, err := inv.AddItem(description, decimal.NewFromFloat(quantity), decimal.NewFromFloat(rate))
	require.NoError(t, err)
	return item
}

func TestInvoiceStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     InvoiceStatus
		to       InvoiceStatus
		canTrans bool
	}{
		{InvoiceStatusDraft, InvoiceStatusSent, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusDraft, InvoiceStatusOverdue, false},
		{InvoiceStatusSent, InvoiceStatusPaid, true},
		{InvoiceStatusSent, InvoiceStatusOverdue, true},
		{InvoiceStatusSent, InvoiceStatusDraft, false},
		{InvoiceStatusOverdue, InvoiceStatusPaid, true},
		{InvoiceStatusOverdue, InvoiceStatusSent, false},
		{InvoiceStatusPaid, InvoiceStatusDraft, false},
		{InvoiceStatusPaid, InvoiceStatusSent, false},
		{InvoiceStatusPaid, InvoiceStatusOverdue, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewInvoice(t *testing.T) {
	ownerID := uuid.New()
	issue := time.Now()
	due := issue.AddDate(0, 0, 14)

	t.Run("creates draft with zero totals", func(t *testing.T) {
		inv, err := NewInvoice(ownerID, "INV-0001", nil, issue, due, valueobject.USD)
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, inv.Subtotal.IsZero())
		assert.True(t, inv.Total.IsZero())
		assert.Empty(t, inv.Items)
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		_, err := NewInvoice(ownerID, "", nil, issue, due, valueobject.USD)
		assert.Error(t, err)
	})

	t.Run("rejects malformed currency", func(t *testing.T) {
		_, err := NewInvoice(ownerID, "INV-0001", nil, issue, due, "US")
		assert.Error(t, err)
	})

	t.Run("rejects zero dates", func(t *testing.T) {
		_, err := NewInvoice(ownerID, "INV-0001", nil, time.Time{}, due, valueobject.USD)
		assert.Error(t, err)
		_, err = NewInvoice(ownerID, "INV-0001", nil, issue, time.Time{}, valueobject.USD)
		assert.Error(t, err)
	})
}

func TestNewInvoiceItem_Validation(t *testing.T) {
	invoiceID := uuid.New()
	rate := valueobject.NewMoneyUSDFromFloat(10)

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewInvoiceItem(invoiceID, "  ", decimal.NewFromInt(1), rate)
		assert.Error(t, err)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		_, err := NewInvoiceItem(invoiceID, "Design work", decimal.NewFromFloat(0.5), rate)
		assert.Error(t, err)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		negative := valueobject.NewMoneyUSDFromFloat(-1)
		_, err := NewInvoiceItem(invoiceID, "Design work", decimal.NewFromInt(1), negative)
		assert.Error(t, err)
	})

	t.Run("amount is quantity times rate at full precision", func(t *testing.T) {
		r := valueobject.NewMoneyUSDFromFloat(10.005)
		item, err := NewInvoiceItem(invoiceID, "Design work", decimal.NewFromInt(3), r)
		require.NoError(t, err)
		assert.Equal(t, "30.015", item.Amount.Amount().String())
	})
}

func TestInvoice_Totals(t *testing.T) {
	t.Run("subtotal sums item amounts", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, "Design", 2, 150)
		addTestItem(t, inv, "Hosting", 1, 19.99)
		assert.Equal(t, "319.99", inv.Subtotal.StringFixed(2))
		assert.Equal(t, "319.99", inv.Total.StringFixed(2))
	})

	t.Run("independent per-field rounding never cascades", func(t *testing.T) {
		// items [{qty:2, rate:10.005}], tax 10%, discount 5% must give
		// subtotal 20.01, tax 2.00, discount 1.00, total 21.01
		inv := createTestInvoice(t)
		addTestItem(t, inv, "Consulting", 2, 10.005)
		require.NoError(t, inv.SetTaxRate(decimal.NewFromInt(10)))
		require.NoError(t, inv.SetDiscount(decimal.NewFromInt(5), DiscountTypePercentage))

		assert.Equal(t, "20.01", inv.Subtotal.StringFixed(2))
		assert.Equal(t, "2.00", inv.TaxAmount.StringFixed(2))
		assert.Equal(t, "1.00", inv.DiscountAmount.StringFixed(2))
		assert.Equal(t, "21.01", inv.Total.StringFixed(2))
	})

	t.Run("fixed discount applied verbatim", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, "Design", 1, 100)
		require.NoError(t, inv.SetDiscount(decimal.NewFromFloat(25.504), DiscountTypeFixed))
		assert.Equal(t, "25.50", inv.DiscountAmount.StringFixed(2))
		assert.Equal(t, "74.50", inv.Total.StringFixed(2))
	})

	t.Run("oversized fixed discount yields negative total", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, "Design", 1, 50)
		require.NoError(t, inv.SetDiscount(decimal.NewFromInt(80), DiscountTypeFixed))
		assert.Equal(t, "-30.00", inv.Total.StringFixed(2))
		assert.True(t, inv.Total.IsNegative())
	})

	t.Run("tax rate bounds", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.Error(t, inv.SetTaxRate(decimal.NewFromInt(-1)))
		assert.Error(t, inv.SetTaxRate(decimal.NewFromInt(101)))
		assert.NoError(t, inv.SetTaxRate(decimal.NewFromInt(100)))
	})

	t.Run("percentage discount bounds", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.Error(t, inv.SetDiscount(decimal.NewFromInt(101), DiscountTypePercentage))
		assert.Error(t, inv.SetDiscount(decimal.NewFromInt(-1), DiscountTypeFixed))
		// fixed discounts have no upper bound
		assert.NoError(t, inv.SetDiscount(decimal.NewFromInt(10000), DiscountTypeFixed))
	})
}

func TestInvoice_ReplaceItems(t *testing.T) {
	t.Run("replaces the whole set and recalculates", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, "Old item", 1, 500)

		err := inv.ReplaceItems([]ItemInput{
			{Description: "New item A", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(10)},
			{Description: "New item B", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromFloat(5.50)},
		})
		require.NoError(t, err)
		assert.Len(t, inv.Items, 2)
		assert.Equal(t, "25.50", inv.Subtotal.StringFixed(2))
	})

	t.Run("requires at least one item", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.Error(t, inv.ReplaceItems(nil))
	})

	t.Run("invalid item leaves nothing half-applied", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, "Keep me", 1, 100)

		err := inv.ReplaceItems([]ItemInput{
			{Description: "ok", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(10)},
			{Description: "", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(10)},
		})
		require.Error(t, err)
		assert.Len(t, inv.Items, 1)
		assert.Equal(t, "Keep me", inv.Items[0].Description)
	})

	t.Run("rejects edits once sent", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, "Design", 1, 100)
		require.NoError(t, inv.TransitionTo(InvoiceStatusSent, time.Now()))

		err := inv.ReplaceItems([]ItemInput{
			{Description: "sneaky", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1)},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Len(t, inv.Items, 1)
		assert.Equal(t, "Design", inv.Items[0].Description)
	})
}

func TestInvoice_Transitions(t *testing.T) {
	t.Run("paid stamps PaidAt", func(t *testing.T) {
		inv := createTestInvoice(t)
		now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, inv.TransitionTo(InvoiceStatusSent, now))
		require.Nil(t, inv.PaidAt)
		require.NoError(t, inv.TransitionTo(InvoiceStatusPaid, now))
		require.NotNil(t, inv.PaidAt)
		assert.Equal(t, now, *inv.PaidAt)
	})

	t.Run("illegal transition is invalid state", func(t *testing.T) {
		inv := createTestInvoice(t)
		err := inv.TransitionTo(InvoiceStatusPaid, time.Now())
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		inv := createTestInvoice(t)
		err := inv.TransitionTo(InvoiceStatus("archived"), time.Now())
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})
}

func TestDeriveStatus(t *testing.T) {
	today := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	startOfToday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		stored  InvoiceStatus
		dueDate time.Time
		want    InvoiceStatus
	}{
		{"sent and past due becomes overdue", InvoiceStatusSent, yesterday, InvoiceStatusOverdue},
		{"sent due today stays sent", InvoiceStatusSent, startOfToday, InvoiceStatusSent},
		{"sent due tomorrow stays sent", InvoiceStatusSent, startOfToday.AddDate(0, 0, 1), InvoiceStatusSent},
		{"paid past due stays paid", InvoiceStatusPaid, yesterday, InvoiceStatusPaid},
		{"draft past due stays draft", InvoiceStatusDraft, yesterday, InvoiceStatusDraft},
		{"persisted overdue stays overdue", InvoiceStatusOverdue, yesterday, InvoiceStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.stored, tt.dueDate, today))
		})
	}

	t.Run("time of day on the reference is ignored", func(t *testing.T) {
		lateNight := time.Date(2026, 9, 1, 23, 59, 59, 0, time.UTC)
		dueToday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, InvoiceStatusSent, DeriveStatus(InvoiceStatusSent, dueToday, lateNight))
	})
}
