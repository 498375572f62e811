package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for issue and due dates
const DateLayout = "2006-01-02"

// InvoiceItemRequest is one incoming line item
type InvoiceItemRequest struct {
	Description string  `json:"description" binding:"required,min=1"`
	Quantity    float64 `json:"quantity" binding:"required,gte=1"`
	Rate        float64 `json:"rate" binding:"gte=0"`
}

// CreateInvoiceRequest represents a request to create a new invoice
type CreateInvoiceRequest struct {
	ClientID     *uuid.UUID           `json:"client_id" binding:"required"`
	Date         string               `json:"date" binding:"required"`
	DueDate      string               `json:"due_date" binding:"required"`
	Items        []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate      float64              `json:"tax_rate" binding:"gte=0,lte=100"`
	Discount     float64              `json:"discount" binding:"gte=0"`
	DiscountType string               `json:"discount_type" binding:"required,oneof=percentage fixed"`
	Currency     string               `json:"currency" binding:"required,len=3"`
	Notes        string               `json:"notes"`
	Terms        string               `json:"terms"`
}

// UpdateInvoiceRequest represents a full draft edit. Items are replaced
// wholesale, not merged.
type UpdateInvoiceRequest struct {
	ClientID     *uuid.UUID           `json:"client_id" binding:"required"`
	Date         string               `json:"date" binding:"required"`
	DueDate      string               `json:"due_date" binding:"required"`
	Items        []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate      float64              `json:"tax_rate" binding:"gte=0,lte=100"`
	Discount     float64              `json:"discount" binding:"gte=0"`
	DiscountType string               `json:"discount_type" binding:"required,oneof=percentage fixed"`
	Notes        string               `json:"notes"`
	Terms        string               `json:"terms"`
}

// UpdateInvoiceStatusRequest moves an invoice along its lifecycle
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft sent paid overdue"`
}

// InvoiceListFilter represents filtering options for listing invoices
type InvoiceListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
	ClientID *uuid.UUID
}

// InvoiceItemResponse is one line item in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents an invoice in API responses. Status carries
// the derived display status; StoredStatus the persisted one.
type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	ClientID        *uuid.UUID            `json:"client_id"`
	Date            string                `json:"date"`
	DueDate         string                `json:"due_date"`
	Status          string                `json:"status"`
	StoredStatus    string                `json:"stored_status"`
	Currency        string                `json:"currency"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxRate         decimal.Decimal       `json:"tax_rate"`
	Tax             decimal.Decimal       `json:"tax"`
	Discount        decimal.Decimal       `json:"discount"`
	DiscountType    string                `json:"discount_type"`
	DiscountAmount  decimal.Decimal       `json:"discount_amount"`
	Total           decimal.Decimal       `json:"total"`
	Notes           string                `json:"notes"`
	Terms           string                `json:"terms"`
	PaymentIntentID string                `json:"payment_intent_id,omitempty"`
	PaidAt          *time.Time            `json:"paid_at,omitempty"`
	Items           []InvoiceItemResponse `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO, deriving
// the display status for the given reference time
func ToInvoiceResponse(inv *billing.Invoice, ref time.Time) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate.Amount(),
			Amount:      item.Amount.Amount(),
		}
	}

	return InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.ClientID,
		Date:            inv.IssueDate.Format(DateLayout),
		DueDate:         inv.DueDate.Format(DateLayout),
		Status:          inv.DisplayStatus(ref).String(),
		StoredStatus:    inv.Status.String(),
		Currency:        string(inv.Currency),
		Subtotal:        inv.Subtotal.Amount(),
		TaxRate:         inv.TaxRate,
		Tax:             inv.TaxAmount.Amount(),
		Discount:        inv.Discount,
		DiscountType:    string(inv.DiscountType),
		DiscountAmount:  inv.DiscountAmount.Amount(),
		Total:           inv.Total.Amount(),
		Notes:           inv.Notes,
		Terms:           inv.Terms,
		PaymentIntentID: inv.PaymentIntentID,
		PaidAt:          inv.PaidAt,
		Items:           items,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of invoices with a shared reference time
func ToInvoiceResponses(invoices []billing.Invoice, ref time.Time) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i], ref)
	}
	return responses
}
