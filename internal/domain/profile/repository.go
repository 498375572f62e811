package profile

import (
	"context"

	"github.com/google/uuid"
)

// BusinessProfileRepository defines persistence for the one-per-user
// letterhead record
type BusinessProfileRepository interface {
	// FindByOwner returns the owner's profile, or shared.ErrNotFound
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*BusinessProfile, error)
	Save(ctx context.Context, p *BusinessProfile) error
}
