package billing

import (
	"github.com/invoicely/backend/internal/domain/shared"
)

// Event types for the billing context
const (
	EventTypeInvoiceCreated       = "billing.invoice.created"
	EventTypeInvoiceStatusChanged = "billing.invoice.status_changed"
	EventTypeInvoiceDeleted       = "billing.invoice.deleted"
)

// InvoiceCreatedEvent is raised when a new draft invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	Currency      string `json:"currency"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, "Invoice", inv.ID, inv.OwnerID),
		InvoiceNumber:   inv.InvoiceNumber,
		Currency:        string(inv.Currency),
	}
}

// InvoiceStatusChangedEvent is raised on every stored status transition
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	FromStatus    string `json:"from_status"`
	ToStatus      string `json:"to_status"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(inv *Invoice, from, to InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, "Invoice", inv.ID, inv.OwnerID),
		InvoiceNumber:   inv.InvoiceNumber,
		FromStatus:      string(from),
		ToStatus:        string(to),
	}
}
