package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/profile"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/invoicely/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBusinessProfileRepository implements BusinessProfileRepository using GORM
type GormBusinessProfileRepository struct {
	db *gorm.DB
}

// NewGormBusinessProfileRepository creates a new GormBusinessProfileRepository
func NewGormBusinessProfileRepository(db *gorm.DB) *GormBusinessProfileRepository {
	return &GormBusinessProfileRepository{db: db}
}

// FindByOwner returns the owner's profile, or shared.ErrNotFound when the
// owner has never saved one
func (r *GormBusinessProfileRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*profile.BusinessProfile, error) {
	var model models.BusinessProfileModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a business profile
func (r *GormBusinessProfileRepository) Save(ctx context.Context, p *profile.BusinessProfile) error {
	model := models.BusinessProfileModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormBusinessProfileRepository implements BusinessProfileRepository
var _ profile.BusinessProfileRepository = (*GormBusinessProfileRepository)(nil)
