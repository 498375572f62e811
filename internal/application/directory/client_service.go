package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicely/backend/internal/domain/directory"
	"github.com/invoicely/backend/internal/domain/shared"
)

// ClientService handles client-related business operations. The acting
// user's ID is an explicit parameter on every method; nothing is read from
// ambient state.
type ClientService struct {
	clientRepo directory.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo directory.ClientRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
	}
}

// Create creates a new client for the owner
func (s *ClientService) Create(ctx context.Context, ownerID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := directory.NewClient(ownerID, req.Name, req.Email, req.Company, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves one of the owner's clients
func (s *ClientService) GetByID(ctx context.Context, ownerID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves the owner's clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, ownerID uuid.UUID, filter ClientListFilter) ([]ClientResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	clients, err := s.clientRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.clientRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClientResponses(clients), total, nil
}

// Update updates one of the owner's clients
func (s *ClientService) Update(ctx context.Context, ownerID, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForOwner(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}

	name := client.Name
	email := client.Email
	company := client.Company
	phone := client.Phone
	address := client.Address

	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Company != nil {
		company = *req.Company
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}

	if err := client.Update(name, email, company, phone, address); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Delete removes one of the owner's clients. Invoices referencing the
// client are left in place with their reference cleared by the store.
func (s *ClientService) Delete(ctx context.Context, ownerID, clientID uuid.UUID) error {
	return s.clientRepo.DeleteForOwner(ctx, ownerID, clientID)
}
