package profile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/profile"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBusinessProfileRepository is a mock implementation of profile.BusinessProfileRepository
type MockBusinessProfileRepository struct {
	mock.Mock
}

func (m *MockBusinessProfileRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*profile.BusinessProfile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.BusinessProfile), args.Error(1)
}

func (m *MockBusinessProfileRepository) Save(ctx context.Context, p *profile.BusinessProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func testProfile(t *testing.T, ownerID uuid.UUID) *profile.BusinessProfile {
	t.Helper()
	p, err := profile.NewBusinessProfile(ownerID, "Studio North", "12 Harbor Lane", "+1 555 0100", "TAX-42", "USD", decimal.NewFromInt(10))
	require.NoError(t, err)
	return p
}

func TestProfileService_Upsert(t *testing.T) {
	ownerID := uuid.New()

	request := UpsertBusinessProfileRequest{
		BusinessName:   "Studio North",
		Address:        "12 Harbor Lane",
		DefaultTaxRate: 11,
	}

	t.Run("creates a profile on first write with defaults", func(t *testing.T) {
		repo := new(MockBusinessProfileRepository)
		service := NewProfileService(repo, new(MockObjectStorage), DefaultProfileServiceConfig())

		repo.On("FindByOwner", mock.Anything, ownerID).Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*profile.BusinessProfile")).Return(nil)

		response, err := service.Upsert(context.Background(), ownerID, request)
		require.NoError(t, err)
		assert.Equal(t, "Studio North", response.BusinessName)
		assert.Equal(t, "USD", response.Currency)
		assert.Equal(t, "11", response.DefaultTaxRate.String())
		repo.AssertExpectations(t)
	})

	t.Run("replaces details on later writes without touching the logo", func(t *testing.T) {
		repo := new(MockBusinessProfileRepository)
		service := NewProfileService(repo, new(MockObjectStorage), DefaultProfileServiceConfig())

		existing := testProfile(t, ownerID)
		existing.SetLogo("https://cdn.test/logo.png", ownerID.String()+"/logo-1.png")

		repo.On("FindByOwner", mock.Anything, ownerID).Return(existing, nil)
		repo.On("Save", mock.Anything, existing).Return(nil)

		response, err := service.Upsert(context.Background(), ownerID, UpsertBusinessProfileRequest{
			BusinessName: "Studio North Ltd",
			Currency:     "IDR",
		})
		require.NoError(t, err)
		assert.Equal(t, "Studio North Ltd", response.BusinessName)
		assert.Equal(t, "IDR", response.Currency)
		assert.Equal(t, "https://cdn.test/logo.png", response.LogoURL)
		repo.AssertExpectations(t)
	})

	t.Run("propagates validation failure without saving", func(t *testing.T) {
		repo := new(MockBusinessProfileRepository)
		service := NewProfileService(repo, new(MockObjectStorage), DefaultProfileServiceConfig())

		repo.On("FindByOwner", mock.Anything, ownerID).Return(nil, shared.ErrNotFound)

		_, err := service.Upsert(context.Background(), ownerID, UpsertBusinessProfileRequest{
			BusinessName:   "Studio North",
			DefaultTaxRate: 140,
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProfileService_UploadLogo(t *testing.T) {
	ownerID := uuid.New()
	logoBytes := []byte("fake png bytes")

	t.Run("stores the logo under the owner's prefix", func(t *testing.T) {
		repo := new(MockBusinessProfileRepository)
		storage := new(MockObjectStorage)
		service := NewProfileService(repo, storage, DefaultProfileServiceConfig())

		p := testProfile(t, ownerID)
		repo.On("FindByOwner", mock.Anything, ownerID).Return(p, nil)
		storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
			return len(key) > len(ownerID.String()) && key[:len(ownerID.String())] == ownerID.String()
		}), logoBytes, "image/png").Return(nil)
		storage.On("GenerateDownloadURL", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return("https://cdn.test/logo.png", time.Now().Add(time.Hour), nil)
		repo.On("Save", mock.Anything, p).Return(nil)

		response, err := service.UploadLogo(context.Background(), ownerID, logoBytes, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.test/logo.png", response.LogoURL)
		storage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
		storage.AssertExpectations(t)
	})

	t.Run("deletes the prior object before storing the replacement", func(t *testing.T) {
		repo := new(MockBusinessProfileRepository)
		storage := new(MockObjectStorage)
		service := NewProfileService(repo, storage, DefaultProfileServiceConfig())

		p := testProfile(t, ownerID)
		oldKey := ownerID.String() + "/logo-1.png"
		p.SetLogo("https://cdn.test/old.png", oldKey)

		repo.On("FindByOwner", mock.Anything, ownerID).Return(p, nil)
		storage.On("DeleteObject", mock.Anything, oldKey).Return(nil)
		storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), logoBytes, "image/jpeg").Return(nil)
		storage.On("GenerateDownloadURL", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return("https://cdn.test/new.jpg", time.Now().Add(time.Hour), nil)
		repo.On("Save", mock.Anything, p).Return(nil)

		response, err := service.UploadLogo(context.Background(), ownerID, logoBytes, "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.test/new.jpg", response.LogoURL)
		assert.NotEqual(t, oldKey, p.LogoStorageKey)
		storage.AssertExpectations(t)
	})

	t.Run("rejects an unsupported content type before touching storage", func(t *testing.T) {
		repo := new(MockBusinessProfileRepository)
		storage := new(MockObjectStorage)
		service := NewProfileService(repo, storage, DefaultProfileServiceConfig())

		_, err := service.UploadLogo(context.Background(), ownerID, logoBytes, "application/pdf")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an oversized file", func(t *testing.T) {
		service := NewProfileService(new(MockBusinessProfileRepository), new(MockObjectStorage), DefaultProfileServiceConfig())

		_, err := service.UploadLogo(context.Background(), ownerID, make([]byte, maxLogoSize+1), "image/png")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})
}

func TestProfileService_DeleteLogo(t *testing.T) {
	ownerID := uuid.New()

	repo := new(MockBusinessProfileRepository)
	storage := new(MockObjectStorage)
	service := NewProfileService(repo, storage, DefaultProfileServiceConfig())

	p := testProfile(t, ownerID)
	key := ownerID.String() + "/logo-1.png"
	p.SetLogo("https://cdn.test/logo.png", key)

	repo.On("FindByOwner", mock.Anything, ownerID).Return(p, nil)
	storage.On("DeleteObject", mock.Anything, key).Return(nil)
	repo.On("Save", mock.Anything, p).Return(nil)

	response, err := service.DeleteLogo(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Empty(t, response.LogoURL)
	assert.False(t, p.HasLogo())
	storage.AssertExpectations(t)
	repo.AssertExpectations(t)
}
