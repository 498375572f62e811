package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/invoicely/backend/internal/domain/directory"
	"github.com/invoicely/backend/internal/domain/profile"
	"github.com/invoicely/backend/internal/domain/shared"
)

// documentDateLayout keeps the day zero-padded, "Sep 02, 2026".
const documentDateLayout = "Jan 02, 2006"

// InvoiceDocument is the fully formatted content handed to the renderer.
// All monetary values arrive as display strings in the invoice's currency.
type InvoiceDocument struct {
	InvoiceNumber string
	IssueDate     string
	DueDate       string
	PaidDate      string
	Status        string

	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	BusinessTaxID   string
	LogoURL         string

	ClientName    string
	ClientCompany string
	ClientEmail   string
	ClientPhone   string
	ClientAddress string

	Items []DocumentLine

	Subtotal       string
	TaxLabel       string
	TaxAmount      string
	DiscountLabel  string
	DiscountAmount string
	Total          string

	Notes string
	Terms string
}

// DocumentLine is one rendered item row
type DocumentLine struct {
	Description string
	Quantity    string
	Rate        string
	Amount      string
}

// DocumentRenderer turns an invoice document into PDF bytes
type DocumentRenderer interface {
	RenderInvoice(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// InvoicePDFService assembles the printable document for an invoice and
// renders it
type InvoicePDFService struct {
	invoiceRepo billing.InvoiceRepository
	clientRepo  directory.ClientRepository
	profileRepo profile.BusinessProfileRepository
	renderer    DocumentRenderer
}

// NewInvoicePDFService creates a new InvoicePDFService
func NewInvoicePDFService(
	invoiceRepo billing.InvoiceRepository,
	clientRepo directory.ClientRepository,
	profileRepo profile.BusinessProfileRepository,
	renderer DocumentRenderer,
) *InvoicePDFService {
	return &InvoicePDFService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		profileRepo: profileRepo,
		renderer:    renderer,
	}
}

// Export renders one of the owner's invoices to PDF. The returned filename
// is the invoice number with a .pdf extension.
func (s *InvoicePDFService) Export(ctx context.Context, ownerID, invoiceID uuid.UUID) (string, []byte, error) {
	inv, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return "", nil, err
	}

	doc, err := s.buildDocument(ctx, ownerID, inv)
	if err != nil {
		return "", nil, err
	}

	pdf, err := s.renderer.RenderInvoice(ctx, doc)
	if err != nil {
		return "", nil, err
	}

	return inv.InvoiceNumber + ".pdf", pdf, nil
}

func (s *InvoicePDFService) buildDocument(ctx context.Context, ownerID uuid.UUID, inv *billing.Invoice) (*InvoiceDocument, error) {
	doc := &InvoiceDocument{
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate.Format(documentDateLayout),
		DueDate:       inv.DueDate.Format(documentDateLayout),
		Status:        inv.Status.String(),
		Notes:         inv.Notes,
		Terms:         inv.Terms,
	}
	if inv.PaidAt != nil {
		doc.PaidDate = inv.PaidAt.Format(documentDateLayout)
	}

	if p, err := s.profileRepo.FindByOwner(ctx, ownerID); err == nil {
		doc.BusinessName = p.BusinessName
		doc.BusinessAddress = p.Address
		doc.BusinessPhone = p.Phone
		doc.BusinessTaxID = p.TaxID
		doc.LogoURL = p.LogoURL
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if inv.ClientID != nil {
		client, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, *inv.ClientID)
		switch {
		case err == nil:
			doc.ClientName = client.Name
			doc.ClientCompany = client.Company
			doc.ClientEmail = client.Email
			doc.ClientPhone = client.Phone
			doc.ClientAddress = client.Address
		case errors.Is(err, shared.ErrNotFound):
			// client was deleted after the invoice was issued
		default:
			return nil, err
		}
	}

	doc.Items = make([]DocumentLine, len(inv.Items))
	for i, item := range inv.Items {
		doc.Items[i] = DocumentLine{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			Rate:        item.Rate.Format(),
			Amount:      item.Amount.Format(),
		}
	}

	doc.Subtotal = inv.Subtotal.Format()
	if inv.TaxRate.IsPositive() {
		doc.TaxLabel = fmt.Sprintf("Tax (%s%%)", inv.TaxRate.String())
		doc.TaxAmount = inv.TaxAmount.Format()
	}
	if inv.Discount.IsPositive() {
		if inv.DiscountType == billing.DiscountTypePercentage {
			doc.DiscountLabel = fmt.Sprintf("Discount (%s%%)", inv.Discount.String())
		} else {
			doc.DiscountLabel = "Discount"
		}
		doc.DiscountAmount = "-" + inv.DiscountAmount.Format()
	}
	doc.Total = inv.Total.Format()

	return doc, nil
}
