package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/invoicely/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the stored lifecycle stage of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// IsValid checks if the status is a valid invoice status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// CanTransitionTo checks if transitioning to the target status is allowed.
// Progression is monotonic: draft -> sent -> paid, with overdue as an
// explicit persisted stop between sent and paid. No transition goes back.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent
	case InvoiceStatusSent:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid
	case InvoiceStatusPaid:
		return false
	}
	return false
}

// String returns the string representation of the status
func (s InvoiceStatus) String() string {
	return string(s)
}

// DiscountType determines how the discount input is interpreted
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// IsValid checks if the discount type is valid
func (d DiscountType) IsValid() bool {
	return d == DiscountTypePercentage || d == DiscountTypeFixed
}

// InvoiceItem is one billable row on an invoice
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	Rate        valueobject.Money
	// Amount is quantity x rate at full precision; it is never rounded
	Amount valueobject.Money
}

// NewInvoiceItem creates a new invoice line item with validation
func NewInvoiceItem(invoiceID uuid.UUID, description string, quantity decimal.Decimal, rate valueobject.Money) (*InvoiceItem, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewValidationError("item description is required")
	}
	if quantity.LessThan(decimal.NewFromInt(1)) {
		return nil, shared.NewValidationError("item quantity must be at least 1")
	}
	if rate.IsNegative() {
		return nil, shared.NewValidationError("item rate must not be negative")
	}

	return &InvoiceItem{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   invoiceID,
		Description: description,
		Quantity:    quantity,
		Rate:        rate,
		Amount:      rate.Multiply(quantity),
	}, nil
}

// Invoice is the billing aggregate root, scoped to its owning user
type Invoice struct {
	shared.OwnedAggregateRoot
	InvoiceNumber string
	ClientID      *uuid.UUID
	IssueDate     time.Time
	DueDate       time.Time
	Status        InvoiceStatus
	Currency      valueobject.Currency
	TaxRate       decimal.Decimal
	Discount      decimal.Decimal
	DiscountType  DiscountType

	// Monetary fields, each independently rounded to 2 decimals from
	// its own raw value on every recalculation
	Subtotal       valueobject.Money
	TaxAmount      valueobject.Money
	DiscountAmount valueobject.Money
	Total          valueobject.Money

	Notes           string
	Terms           string
	PaymentIntentID string
	PaidAt          *time.Time
	Items           []InvoiceItem
}

// NewInvoice creates a new draft invoice
func NewInvoice(ownerID uuid.UUID, invoiceNumber string, clientID *uuid.UUID, issueDate, dueDate time.Time, currency valueobject.Currency) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("invoice number is required")
	}
	if issueDate.IsZero() {
		return nil, shared.NewValidationError("issue date is required")
	}
	if dueDate.IsZero() {
		return nil, shared.NewValidationError("due date is required")
	}
	if len(currency) != 3 {
		return nil, shared.NewValidationError("currency must be a 3-letter code")
	}

	inv := &Invoice{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		InvoiceNumber:      invoiceNumber,
		ClientID:           clientID,
		IssueDate:          issueDate,
		DueDate:            dueDate,
		Status:             InvoiceStatusDraft,
		Currency:           currency,
		TaxRate:            decimal.Zero,
		Discount:           decimal.Zero,
		DiscountType:       DiscountTypePercentage,
		Subtotal:           valueobject.Zero(currency),
		TaxAmount:          valueobject.Zero(currency),
		DiscountAmount:     valueobject.Zero(currency),
		Total:              valueobject.Zero(currency),
		Items:              make([]InvoiceItem, 0),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// SetTaxRate sets the tax rate percentage and recalculates totals.
// Only draft invoices may be changed.
func (inv *Invoice) SetTaxRate(rate decimal.Decimal) error {
	if err := inv.ensureDraft(); err != nil {
		return err
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("tax rate must be between 0 and 100")
	}
	inv.TaxRate = rate
	inv.recalculateTotals()
	inv.markUpdated()
	return nil
}

// SetDiscount sets the discount value and type and recalculates totals.
// A fixed discount is deliberately not validated against the subtotal:
// it may exceed it and drive the total negative.
func (inv *Invoice) SetDiscount(value decimal.Decimal, discountType DiscountType) error {
	if err := inv.ensureDraft(); err != nil {
		return err
	}
	if !discountType.IsValid() {
		return shared.NewValidationError("discount type must be percentage or fixed")
	}
	if value.IsNegative() {
		return shared.NewValidationError("discount must not be negative")
	}
	if discountType == DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("percentage discount must be between 0 and 100")
	}
	inv.Discount = value
	inv.DiscountType = discountType
	inv.recalculateTotals()
	inv.markUpdated()
	return nil
}

// AddItem appends a line item to a draft invoice and recalculates totals
func (inv *Invoice) AddItem(description string, quantity decimal.Decimal, rate decimal.Decimal) (*InvoiceItem, error) {
	if err := inv.ensureDraft(); err != nil {
		return nil, err
	}

	rateMoney, err := valueobject.NewMoney(rate, inv.Currency)
	if err != nil {
		return nil, shared.NewValidationError(err.Error())
	}
	item, err := NewInvoiceItem(inv.ID, description, quantity, rateMoney)
	if err != nil {
		return nil, err
	}

	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.markUpdated()
	return item, nil
}

// ItemInput is the raw shape of one incoming line item
type ItemInput struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

// ReplaceItems discards every existing item and installs the new set.
// Editing is a full replacement, not a diff. Draft invoices only.
func (inv *Invoice) ReplaceItems(inputs []ItemInput) error {
	if err := inv.ensureDraft(); err != nil {
		return err
	}
	if len(inputs) == 0 {
		return shared.NewValidationError("at least one item is required")
	}

	items := make([]InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		rateMoney, err := valueobject.NewMoney(in.Rate, inv.Currency)
		if err != nil {
			return shared.NewValidationError(err.Error())
		}
		item, err := NewInvoiceItem(inv.ID, in.Description, in.Quantity, rateMoney)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}

	inv.Items = items
	inv.recalculateTotals()
	inv.markUpdated()
	return nil
}

// UpdateDetails changes the header fields of a draft invoice
func (inv *Invoice) UpdateDetails(clientID *uuid.UUID, issueDate, dueDate time.Time, notes, terms string) error {
	if err := inv.ensureDraft(); err != nil {
		return err
	}
	if issueDate.IsZero() {
		return shared.NewValidationError("issue date is required")
	}
	if dueDate.IsZero() {
		return shared.NewValidationError("due date is required")
	}
	inv.ClientID = clientID
	inv.IssueDate = issueDate
	inv.DueDate = dueDate
	inv.Notes = notes
	inv.Terms = terms
	inv.markUpdated()
	return nil
}

// SetNotes sets the free-form notes and terms footers
func (inv *Invoice) SetNotes(notes, terms string) {
	inv.Notes = notes
	inv.Terms = terms
	inv.markUpdated()
}

// TransitionTo moves the invoice to the target stored status.
// Marking paid stamps the payment timestamp.
func (inv *Invoice) TransitionTo(target InvoiceStatus, now time.Time) error {
	if !target.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("invalid status: %s", target))
	}
	if !inv.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("cannot transition invoice from %s to %s", inv.Status, target))
	}

	from := inv.Status
	inv.Status = target
	if target == InvoiceStatusPaid {
		paidAt := now
		inv.PaidAt = &paidAt
	}
	inv.markUpdated()
	inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, from, target))
	return nil
}

// IsDraft reports whether the invoice is still editable
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// DisplayStatus derives the presentation status for a reference time.
// A stored "sent" invoice whose due date lies strictly before the start of
// the reference day is shown as overdue; nothing is ever persisted here.
func (inv *Invoice) DisplayStatus(ref time.Time) InvoiceStatus {
	return DeriveStatus(inv.Status, inv.DueDate, ref)
}

// DeriveStatus is the pure projection from stored status to display status
func DeriveStatus(stored InvoiceStatus, dueDate, ref time.Time) InvoiceStatus {
	if stored == InvoiceStatusSent && dueDate.Before(TruncateToDay(ref)) {
		return InvoiceStatusOverdue
	}
	return stored
}

// TruncateToDay strips the time-of-day component in the reference location
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (inv *Invoice) ensureDraft() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("invoice %s is %s and can no longer be modified", inv.InvoiceNumber, inv.Status))
	}
	return nil
}

// recalculateTotals recomputes the four monetary fields from the items.
// Each field is rounded independently from its own raw value; raw values
// are never replaced with rounded ones mid-calculation, so rounding never
// cascades from one field into the next.
func (inv *Invoice) recalculateTotals() {
	rawSubtotal := decimal.Zero
	for _, item := range inv.Items {
		rawSubtotal = rawSubtotal.Add(item.Amount.Amount())
	}

	hundred := decimal.NewFromInt(100)
	rawTax := rawSubtotal.Mul(inv.TaxRate).Div(hundred)

	var rawDiscount decimal.Decimal
	if inv.DiscountType == DiscountTypePercentage {
		rawDiscount = rawSubtotal.Mul(inv.Discount).Div(hundred)
	} else {
		rawDiscount = inv.Discount
	}

	rawTotal := rawSubtotal.Add(rawTax).Sub(rawDiscount)

	inv.Subtotal = mustMoney(rawSubtotal.Round(2), inv.Currency)
	inv.TaxAmount = mustMoney(rawTax.Round(2), inv.Currency)
	inv.DiscountAmount = mustMoney(rawDiscount.Round(2), inv.Currency)
	inv.Total = mustMoney(rawTotal.Round(2), inv.Currency)
}

func (inv *Invoice) markUpdated() {
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

func mustMoney(amount decimal.Decimal, currency valueobject.Currency) valueobject.Money {
	m, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}
