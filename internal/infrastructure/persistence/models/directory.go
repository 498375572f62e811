package models

import (
	"github.com/invoicely/backend/internal/domain/directory"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	OwnedAggregateModel
	Name    string `gorm:"type:varchar(100);not null"`
	Email   string `gorm:"type:varchar(200);index"`
	Company string `gorm:"type:varchar(100)"`
	Phone   string `gorm:"type:varchar(20)"`
	Address string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *directory.Client {
	c := &directory.Client{
		Name:    m.Name,
		Email:   m.Email,
		Company: m.Company,
		Phone:   m.Phone,
		Address: m.Address,
	}
	m.PopulateOwnedAggregateRoot(&c.OwnedAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *directory.Client) {
	m.FromDomainOwnedAggregateRoot(c.OwnedAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Company = c.Company
	m.Phone = c.Phone
	m.Address = c.Address
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *directory.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
