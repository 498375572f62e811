package directory

import (
	"github.com/invoicely/backend/internal/domain/shared"
)

// ClientRepository defines persistence operations for clients
type ClientRepository interface {
	shared.OwnedRepository[Client]
}
