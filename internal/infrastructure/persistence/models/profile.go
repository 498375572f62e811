package models

import (
	"github.com/invoicely/backend/internal/domain/profile"
	"github.com/invoicely/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BusinessProfileModel is the persistence model for the BusinessProfile
// domain entity. One row per owner.
type BusinessProfileModel struct {
	OwnedAggregateModel
	BusinessName   string          `gorm:"type:varchar(100);not null"`
	Address        string          `gorm:"type:text"`
	Phone          string          `gorm:"type:varchar(20)"`
	TaxID          string          `gorm:"type:varchar(50)"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'USD'"`
	DefaultTaxRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LogoURL        string          `gorm:"type:text"`
	LogoStorageKey string          `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (BusinessProfileModel) TableName() string {
	return "business_profiles"
}

// ToDomain converts the persistence model to a domain BusinessProfile.
func (m *BusinessProfileModel) ToDomain() *profile.BusinessProfile {
	p := &profile.BusinessProfile{
		BusinessName:   m.BusinessName,
		Address:        m.Address,
		Phone:          m.Phone,
		TaxID:          m.TaxID,
		Currency:       valueobject.Currency(m.Currency),
		DefaultTaxRate: m.DefaultTaxRate,
		LogoURL:        m.LogoURL,
		LogoStorageKey: m.LogoStorageKey,
	}
	m.PopulateOwnedAggregateRoot(&p.OwnedAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain BusinessProfile.
func (m *BusinessProfileModel) FromDomain(p *profile.BusinessProfile) {
	m.FromDomainOwnedAggregateRoot(p.OwnedAggregateRoot)
	m.BusinessName = p.BusinessName
	m.Address = p.Address
	m.Phone = p.Phone
	m.TaxID = p.TaxID
	m.Currency = string(p.Currency)
	m.DefaultTaxRate = p.DefaultTaxRate
	m.LogoURL = p.LogoURL
	m.LogoStorageKey = p.LogoStorageKey
}

// BusinessProfileModelFromDomain creates a new persistence model from a
// domain BusinessProfile.
func BusinessProfileModelFromDomain(p *profile.BusinessProfile) *BusinessProfileModel {
	m := &BusinessProfileModel{}
	m.FromDomain(p)
	return m
}
