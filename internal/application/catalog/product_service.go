package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/syncbridge/backend/internal/domain/catalog"
	"github.com/syncbridge/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new locally-originated product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Description, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List retrieves a paginated list of products
func (s *ProductService) List(ctx context.Context, query ListQuery) (*shared.Paginated[ProductResponse], error) {
	filter := query.ToFilter()

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = *ToProductResponse(&products[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update updates a product's mutable fields. The next sync pass overwrites
// them with the remote system's values for synced products.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	description := product.Description
	price := product.Price
	stock := product.Stock
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Price != nil {
		price = *req.Price
	}
	if req.Stock != nil {
		stock = *req.Stock
	}

	if err := product.Update(name, description, price, stock); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
