package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/identity"
	"github.com/invoicely/backend/internal/domain/shared"
)

// TokenPair is an access/refresh token set issued to a user
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresIn is the access token lifetime in seconds
	ExpiresIn int64 `json:"expires_in"`
}

// TokenClaims is the validated content of an access token
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues and validates the signed tokens handed to clients
type TokenService interface {
	GenerateTokenPair(userID uuid.UUID, email string) (*TokenPair, error)
	RefreshTokenPair(refreshToken string) (*TokenPair, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// TokenBlacklist revokes tokens before their natural expiry
type TokenBlacklist interface {
	Add(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthService handles account registration and the login session lifecycle
type AuthService struct {
	userRepo  identity.UserRepository
	tokens    TokenService
	blacklist TokenBlacklist
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, tokens TokenService, blacklist TokenBlacklist) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
	}
}

// Register creates a new account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.authResponse(user)
}

// Login verifies credentials and issues a token pair. A wrong email and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		return nil, invalidCredentials()
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "This account is deactivated")
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return s.authResponse(user)
}

// Refresh exchanges a valid refresh token for a fresh pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	pair, err := s.tokens.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid or expired refresh token")
	}
	return pair, nil
}

// Logout blacklists the presented access token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return shared.NewDomainError("UNAUTHORIZED", "Invalid or expired token")
	}
	return s.blacklist.Add(ctx, claims.TokenID, claims.ExpiresAt)
}

// Me returns the account behind an authenticated request
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

func (s *AuthService) authResponse(user *identity.User) (*AuthResponse, error) {
	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func invalidCredentials() error {
	return shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
}
