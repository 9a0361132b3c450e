package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/syncbridge/backend/internal/domain/catalog"
	"github.com/syncbridge/backend/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo catalog.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo catalog.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create creates a new locally-originated customer. The email must be
// unique; syncing never calls this path.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	existing, err := s.customerRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	customer, err := catalog.NewCustomer(req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// List retrieves a paginated list of customers
func (s *CustomerService) List(ctx context.Context, query ListQuery) (*shared.Paginated[CustomerResponse], error) {
	filter := query.ToFilter()

	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = *ToCustomerResponse(&customers[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update updates a customer's mutable fields. The remote correlation ID and
// last-sync stamp are never touched here.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := customer.Name
	email := customer.Email
	phone := customer.Phone
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}

	if !strings.EqualFold(email, customer.Email) {
		existing, err := s.customerRepo.FindByEmail(ctx, strings.ToLower(email))
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != customer.ID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
		}
	}

	if err := customer.Update(name, email, phone); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// Delete deletes a customer
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}
