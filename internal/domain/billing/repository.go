package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/shared"
)

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	shared.OwnedRepository[Invoice]

	// FindByNumberForOwner looks up an invoice by its human-readable number
	FindByNumberForOwner(ctx context.Context, ownerID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// NextInvoiceNumber produces the next INV-%04d number from the owner's
	// current invoice count. The count-then-format read is not atomic;
	// concurrent creation by the same user can race and yield duplicates.
	// That limitation is inherited and documented, not fixed here.
	NextInvoiceNumber(ctx context.Context, ownerID uuid.UUID) (string, error)
}
