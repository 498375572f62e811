package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/invoicely/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// Monetary amounts are stored as plain decimals; the currency lives in its
// own column and is reattached when converting back to the domain.
type InvoiceModel struct {
	OwnedAggregateModel
	InvoiceNumber   string                `gorm:"type:varchar(50);not null;index"`
	ClientID        *uuid.UUID            `gorm:"type:uuid;index"`
	IssueDate       time.Time             `gorm:"not null"`
	DueDate         time.Time             `gorm:"not null;index"`
	Status          billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Currency        string                `gorm:"type:varchar(3);not null;default:'USD'"`
	TaxRate         decimal.Decimal       `gorm:"type:decimal(5,2);not null;default:0"`
	Discount        decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountType    billing.DiscountType  `gorm:"type:varchar(20);not null;default:'percentage'"`
	Subtotal        decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount  decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Total           decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Notes           string                `gorm:"type:text"`
	Terms           string                `gorm:"type:text"`
	PaymentIntentID string                `gorm:"type:varchar(100)"`
	PaidAt          *time.Time            `gorm:""`
	Items           []InvoiceItemModel    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	currency := valueobject.Currency(m.Currency)

	inv := &billing.Invoice{
		InvoiceNumber:   m.InvoiceNumber,
		ClientID:        m.ClientID,
		IssueDate:       m.IssueDate,
		DueDate:         m.DueDate,
		Status:          m.Status,
		Currency:        currency,
		TaxRate:         m.TaxRate,
		Discount:        m.Discount,
		DiscountType:    m.DiscountType,
		Subtotal:        moneyFrom(m.Subtotal, currency),
		TaxAmount:       moneyFrom(m.TaxAmount, currency),
		DiscountAmount:  moneyFrom(m.DiscountAmount, currency),
		Total:           moneyFrom(m.Total, currency),
		Notes:           m.Notes,
		Terms:           m.Terms,
		PaymentIntentID: m.PaymentIntentID,
		PaidAt:          m.PaidAt,
		Items:           make([]billing.InvoiceItem, len(m.Items)),
	}
	m.PopulateOwnedAggregateRoot(&inv.OwnedAggregateRoot)

	for i, item := range m.Items {
		inv.Items[i] = *item.ToDomain(currency)
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice aggregate.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainOwnedAggregateRoot(inv.OwnedAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.ClientID = inv.ClientID
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.Currency = string(inv.Currency)
	m.TaxRate = inv.TaxRate
	m.Discount = inv.Discount
	m.DiscountType = inv.DiscountType
	m.Subtotal = inv.Subtotal.Amount()
	m.TaxAmount = inv.TaxAmount.Amount()
	m.DiscountAmount = inv.DiscountAmount.Amount()
	m.Total = inv.Total.Amount()
	m.Notes = inv.Notes
	m.Terms = inv.Terms
	m.PaymentIntentID = inv.PaymentIntentID
	m.PaidAt = inv.PaidAt

	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i := range inv.Items {
		m.Items[i].FromDomain(&inv.Items[i])
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for one invoice line item.
// Quantity, rate and amount keep full precision; rounding happens only on
// the invoice-level monetary fields.
type InvoiceItemModel struct {
	BaseModel
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem.
// The currency comes from the owning invoice.
func (m *InvoiceItemModel) ToDomain(currency valueobject.Currency) *billing.InvoiceItem {
	return &billing.InvoiceItem{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		Rate:        moneyFrom(m.Rate, currency),
		Amount:      moneyFrom(m.Amount, currency),
	}
}

// FromDomain populates the persistence model from a domain InvoiceItem.
func (m *InvoiceItemModel) FromDomain(item *billing.InvoiceItem) {
	m.FromDomainBaseEntity(item.BaseEntity)
	m.InvoiceID = item.InvoiceID
	m.Description = item.Description
	m.Quantity = item.Quantity
	m.Rate = item.Rate.Amount()
	m.Amount = item.Amount.Amount()
}

func moneyFrom(amount decimal.Decimal, currency valueobject.Currency) valueobject.Money {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	m, _ := valueobject.NewMoney(amount, currency)
	return m
}
