package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/profile"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/invoicely/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ObjectStorageService abstracts the object store used for logo files
type ObjectStorageService interface {
	// Upload stores an object under the given key, overwriting any
	// existing object with that key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL generates a presigned URL for downloading a file.
	// Returns the download URL and expiration time.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// logoContentTypes maps accepted upload content types to file extensions
var logoContentTypes = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/svg+xml": "svg",
	"image/webp":    "webp",
}

const maxLogoSize = 2 << 20 // 2 MiB

// ProfileServiceConfig holds configuration for the profile service
type ProfileServiceConfig struct {
	// LogoURLExpiry is the duration for which stored logo URLs are valid
	LogoURLExpiry time.Duration
}

// DefaultProfileServiceConfig returns the default configuration
func DefaultProfileServiceConfig() ProfileServiceConfig {
	return ProfileServiceConfig{
		LogoURLExpiry: 7 * 24 * time.Hour,
	}
}

// ProfileService manages the caller's business profile and logo
type ProfileService struct {
	profileRepo profile.BusinessProfileRepository
	storage     ObjectStorageService
	config      ProfileServiceConfig
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo profile.BusinessProfileRepository, storage ObjectStorageService, config ProfileServiceConfig) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		storage:     storage,
		config:      config,
	}
}

// Get retrieves the owner's business profile
func (s *ProfileService) Get(ctx context.Context, ownerID uuid.UUID) (*BusinessProfileResponse, error) {
	p, err := s.profileRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	response := ToBusinessProfileResponse(p)
	return &response, nil
}

// Upsert creates the owner's profile on first write and replaces its
// details on every write after that. The logo is untouched either way.
func (s *ProfileService) Upsert(ctx context.Context, ownerID uuid.UUID, req UpsertBusinessProfileRequest) (*BusinessProfileResponse, error) {
	taxRate := decimal.NewFromFloat(req.DefaultTaxRate)
	currency := valueobject.Currency(req.Currency)

	p, err := s.profileRepo.FindByOwner(ctx, ownerID)
	switch {
	case err == nil:
		if err := p.Update(req.BusinessName, req.Address, req.Phone, req.TaxID, currency, taxRate); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		p, err = profile.NewBusinessProfile(ownerID, req.BusinessName, req.Address, req.Phone, req.TaxID, currency, taxRate)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.profileRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToBusinessProfileResponse(p)
	return &response, nil
}

// UploadLogo stores a new logo object keyed under the owner's ID and points
// the profile at it. Any previously stored logo object is deleted first so
// each owner holds at most one.
func (s *ProfileService) UploadLogo(ctx context.Context, ownerID uuid.UUID, data []byte, contentType string) (*BusinessProfileResponse, error) {
	ext, ok := logoContentTypes[contentType]
	if !ok {
		return nil, shared.NewValidationError(fmt.Sprintf("unsupported logo content type: %s", contentType))
	}
	if len(data) == 0 {
		return nil, shared.NewValidationError("logo file is empty")
	}
	if len(data) > maxLogoSize {
		return nil, shared.NewValidationError("logo file exceeds the 2 MiB limit")
	}

	p, err := s.profileRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if p.LogoStorageKey != "" {
		if err := s.storage.DeleteObject(ctx, p.LogoStorageKey); err != nil {
			return nil, err
		}
	}

	storageKey := fmt.Sprintf("%s/logo-%d.%s", ownerID, time.Now().UnixMilli(), ext)
	if err := s.storage.Upload(ctx, storageKey, data, contentType); err != nil {
		return nil, err
	}

	url, _, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.config.LogoURLExpiry)
	if err != nil {
		return nil, err
	}

	p.SetLogo(url, storageKey)
	if err := s.profileRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToBusinessProfileResponse(p)
	return &response, nil
}

// DeleteLogo removes the stored logo object and clears the reference
func (s *ProfileService) DeleteLogo(ctx context.Context, ownerID uuid.UUID) (*BusinessProfileResponse, error) {
	p, err := s.profileRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if p.LogoStorageKey != "" {
		if err := s.storage.DeleteObject(ctx, p.LogoStorageKey); err != nil {
			return nil, err
		}
	}

	p.ClearLogo()
	if err := s.profileRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToBusinessProfileResponse(p)
	return &response, nil
}
