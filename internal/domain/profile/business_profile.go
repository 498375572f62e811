// Package profile holds the invoicing user's own letterhead data shown on
// generated PDFs.
package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/invoicely/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BusinessProfile is the one-per-user letterhead record: business name,
// logo, address and tax details, plus invoicing defaults.
type BusinessProfile struct {
	shared.OwnedAggregateRoot
	BusinessName   string
	Address        string
	Phone          string
	TaxID          string
	Currency       valueobject.Currency
	DefaultTaxRate decimal.Decimal
	LogoURL        string
	// LogoStorageKey is the object-store key of the current logo,
	// kept so a replacement can delete the prior object first
	LogoStorageKey string
}

// NewBusinessProfile creates a profile with defaults applied
func NewBusinessProfile(ownerID uuid.UUID, businessName, address, phone, taxID string, currency valueobject.Currency, defaultTaxRate decimal.Decimal) (*BusinessProfile, error) {
	p := &BusinessProfile{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
	}
	if err := p.apply(businessName, address, phone, taxID, currency, defaultTaxRate); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the profile details, reapplying defaults where inputs
// are empty
func (p *BusinessProfile) Update(businessName, address, phone, taxID string, currency valueobject.Currency, defaultTaxRate decimal.Decimal) error {
	if err := p.apply(businessName, address, phone, taxID, currency, defaultTaxRate); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

func (p *BusinessProfile) apply(businessName, address, phone, taxID string, currency valueobject.Currency, defaultTaxRate decimal.Decimal) error {
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return shared.NewValidationError("business name is required")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if len(currency) != 3 {
		return shared.NewValidationError("currency must be a 3-letter code")
	}
	if defaultTaxRate.IsNegative() || defaultTaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("default tax rate must be between 0 and 100")
	}

	p.BusinessName = businessName
	p.Address = address
	p.Phone = phone
	p.TaxID = taxID
	p.Currency = currency
	p.DefaultTaxRate = defaultTaxRate
	return nil
}

// SetLogo records a newly stored logo object
func (p *BusinessProfile) SetLogo(url, storageKey string) {
	p.LogoURL = url
	p.LogoStorageKey = storageKey
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// ClearLogo removes the logo reference
func (p *BusinessProfile) ClearLogo() {
	p.LogoURL = ""
	p.LogoStorageKey = ""
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// HasLogo reports whether a logo is stored
func (p *BusinessProfile) HasLogo() bool {
	return p.LogoURL != ""
}
