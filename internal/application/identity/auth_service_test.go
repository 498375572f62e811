package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/identity"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockTokenService is a mock implementation of TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateTokenPair(userID uuid.UUID, email string) (*TokenPair, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPair), args.Error(1)
}

func (m *MockTokenService) RefreshTokenPair(refreshToken string) (*TokenPair, error) {
	args := m.Called(refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPair), args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(token string) (*TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenClaims), args.Error(1)
}

// MockTokenBlacklist is a mock implementation of TokenBlacklist
type MockTokenBlacklist struct {
	mock.Mock
}

func (m *MockTokenBlacklist) Add(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func testUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("owner@studio.test", "correct-horse", "Sam Owner")
	require.NoError(t, err)
	return user
}

func testTokenPair() *TokenPair {
	return &TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    900,
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates an account and signs it in", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokens := new(MockTokenService)
		service := NewAuthService(userRepo, tokens, new(MockTokenBlacklist))

		userRepo.On("ExistsByEmail", mock.Anything, "owner@studio.test").Return(false, nil)
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
		tokens.On("GenerateTokenPair", mock.AnythingOfType("uuid.UUID"), "owner@studio.test").Return(testTokenPair(), nil)

		response, err := service.Register(context.Background(), RegisterRequest{
			Email:    "Owner@Studio.test",
			Password: "correct-horse",
			Name:     "Sam Owner",
		})
		require.NoError(t, err)
		assert.Equal(t, "owner@studio.test", response.User.Email)
		assert.Equal(t, "access-token", response.AccessToken)
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, new(MockTokenService), new(MockTokenBlacklist))

		userRepo.On("ExistsByEmail", mock.Anything, "owner@studio.test").Return(true, nil)

		_, err := service.Register(context.Background(), RegisterRequest{
			Email:    "owner@studio.test",
			Password: "correct-horse",
			Name:     "Sam Owner",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues tokens and records the login", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokens := new(MockTokenService)
		service := NewAuthService(userRepo, tokens, new(MockTokenBlacklist))

		user := testUser(t)
		userRepo.On("FindByEmail", mock.Anything, "owner@studio.test").Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)
		tokens.On("GenerateTokenPair", user.ID, user.Email).Return(testTokenPair(), nil)

		response, err := service.Login(context.Background(), LoginRequest{
			Email:    "owner@studio.test",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.Equal(t, "refresh-token", response.RefreshToken)
		require.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, new(MockTokenService), new(MockTokenBlacklist))

		user := testUser(t)
		userRepo.On("FindByEmail", mock.Anything, "owner@studio.test").Return(user, nil)
		userRepo.On("FindByEmail", mock.Anything, "stranger@studio.test").Return(nil, shared.ErrNotFound)

		_, badPassword := service.Login(context.Background(), LoginRequest{
			Email:    "owner@studio.test",
			Password: "wrong",
		})
		_, badEmail := service.Login(context.Background(), LoginRequest{
			Email:    "stranger@studio.test",
			Password: "correct-horse",
		})

		require.Error(t, badPassword)
		require.Error(t, badEmail)
		assert.Equal(t, badPassword.Error(), badEmail.Error())
	})

	t.Run("rejects a deactivated account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := NewAuthService(userRepo, new(MockTokenService), new(MockTokenBlacklist))

		user := testUser(t)
		user.Deactivate()
		userRepo.On("FindByEmail", mock.Anything, "owner@studio.test").Return(user, nil)

		_, err := service.Login(context.Background(), LoginRequest{
			Email:    "owner@studio.test",
			Password: "correct-horse",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	tokens := new(MockTokenService)
	service := NewAuthService(new(MockUserRepository), tokens, new(MockTokenBlacklist))

	tokens.On("RefreshTokenPair", "good-refresh").Return(testTokenPair(), nil)
	tokens.On("RefreshTokenPair", "stale-refresh").Return(nil, shared.ErrUnauthorized)

	pair, err := service.Refresh(context.Background(), RefreshRequest{RefreshToken: "good-refresh"})
	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.AccessToken)

	_, err = service.Refresh(context.Background(), RefreshRequest{RefreshToken: "stale-refresh"})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_Logout(t *testing.T) {
	tokens := new(MockTokenService)
	blacklist := new(MockTokenBlacklist)
	service := NewAuthService(new(MockUserRepository), tokens, blacklist)

	expiresAt := time.Now().Add(10 * time.Minute)
	tokens.On("ValidateAccessToken", "live-token").Return(&TokenClaims{
		UserID:    uuid.New(),
		TokenID:   "jti-1",
		ExpiresAt: expiresAt,
	}, nil)
	blacklist.On("Add", mock.Anything, "jti-1", expiresAt).Return(nil)

	require.NoError(t, service.Logout(context.Background(), "live-token"))
	blacklist.AssertExpectations(t)
}
