package profile

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/profile"
	"github.com/shopspring/decimal"
)

// UpsertBusinessProfileRequest creates or replaces the caller's profile
type UpsertBusinessProfileRequest struct {
	BusinessName   string  `json:"business_name" binding:"required,min=1,max=100"`
	Address        string  `json:"address" binding:"max=500"`
	Phone          string  `json:"phone" binding:"max=20"`
	TaxID          string  `json:"tax_id" binding:"max=50"`
	Currency       string  `json:"currency" binding:"omitempty,len=3"`
	DefaultTaxRate float64 `json:"default_tax_rate" binding:"gte=0,lte=100"`
}

// BusinessProfileResponse represents a business profile in API responses
type BusinessProfileResponse struct {
	ID             uuid.UUID       `json:"id"`
	BusinessName   string          `json:"business_name"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	TaxID          string          `json:"tax_id"`
	Currency       string          `json:"currency"`
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"`
	LogoURL        string          `json:"logo_url"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToBusinessProfileResponse converts a domain profile to a response DTO
func ToBusinessProfileResponse(p *profile.BusinessProfile) BusinessProfileResponse {
	return BusinessProfileResponse{
		ID:             p.ID,
		BusinessName:   p.BusinessName,
		Address:        p.Address,
		Phone:          p.Phone,
		TaxID:          p.TaxID,
		Currency:       string(p.Currency),
		DefaultTaxRate: p.DefaultTaxRate,
		LogoURL:        p.LogoURL,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
