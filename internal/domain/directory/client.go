// Package directory contains the customer records a user invoices against.
package directory

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/shared"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	maxNameLength    = 100
	maxCompanyLength = 100
	maxPhoneLength   = 20
	maxAddressLength = 500
)

// Client is a customer record owned by exactly one user. Clients are only
// ever created from user input and are deleted independently of invoices:
// an invoice keeps a dangling-free nullable reference when its client goes.
type Client struct {
	shared.OwnedAggregateRoot
	Name    string
	Email   string
	Company string
	Phone   string
	Address string
}

// NewClient creates a new client record with validation
func NewClient(ownerID uuid.UUID, name, email, company, phone, address string) (*Client, error) {
	c := &Client{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
	}
	if err := c.setFields(name, email, company, phone, address); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the client's details with validation
func (c *Client) Update(name, email, company, phone, address string) error {
	if err := c.setFields(name, email, company, phone, address); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

func (c *Client) setFields(name, email, company, phone, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("client name is required")
	}
	if len(name) > maxNameLength {
		return shared.NewValidationError("client name is too long")
	}
	// optional fields may be empty, but not malformed or oversized
	if email != "" && !emailRegex.MatchString(email) {
		return shared.NewValidationError("invalid email address")
	}
	if len(company) > maxCompanyLength {
		return shared.NewValidationError("company name is too long")
	}
	if len(phone) > maxPhoneLength {
		return shared.NewValidationError("phone number is too long")
	}
	if len(address) > maxAddressLength {
		return shared.NewValidationError("address is too long")
	}

	c.Name = name
	c.Email = email
	c.Company = company
	c.Phone = phone
	c.Address = address
	return nil
}
