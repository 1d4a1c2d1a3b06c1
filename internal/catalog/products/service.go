package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/catalog-api/internal/catalog/categories"
	"github.com/noah-isme/catalog-api/internal/shared"
)

// CategoryReader is the slice of the category repository the product service
// depends on: existence checks and the enrichment lookup.
type CategoryReader interface {
	Get(ctx context.Context, id int64) (*categories.Category, error)
	ListByProduct(ctx context.Context, productID int64) ([]categories.Category, error)
}

// Service composes the product repository, the mapper and the category
// association logic. Every product-returning operation passes through enrich,
// so the categories field is always populated from the join table.
type Service struct {
	repo Repository
	cats CategoryReader
}

func NewService(repo Repository, cats CategoryReader) *Service {
	return &Service{repo: repo, cats: cats}
}

// List returns all products, optionally capped at a maximum price.
func (s *Service) List(ctx context.Context, maxPrice *decimal.Decimal) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, maxPrice)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, rows)
}

func (s *Service) Get(ctx context.Context, id int64) (*ProductDTO, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFound("Product", "id", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return s.enrich(ctx, ToDTO(p))
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (*ProductDTO, error) {
	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFound("Product", "sku", sku)
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return s.enrich(ctx, ToDTO(p))
}

// Search matches a case-insensitive name fragment. An empty fragment matches
// every product; search never reports not-found.
func (s *Service) Search(ctx context.Context, fragment string) ([]ProductDTO, error) {
	rows, err := s.repo.Search(ctx, fragment)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, rows)
}

// Create persists a new product. A duplicate SKU surfaces as the store's
// uniqueness violation, untouched.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	p := FromCreateRequest(&req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.enrich(ctx, ToDTO(p))
}

// Update applies a partial overwrite: only fields present in the request
// replace the stored values.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductDTO, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFound("Product", "id", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	ApplyUpdate(existing, &req)
	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFound("Product", "id", id)
		}
		return nil, err
	}
	return s.enrich(ctx, ToDTO(existing))
}

// Delete removes a product and, first, every join row referencing it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFound("Product", "id", id)
		}
		return err
	}
	return nil
}

// AddCategory links a category to a product. Both existence checks run
// concurrently before the mutation; linking an already linked pair is a
// no-op. Returns the enriched product.
func (s *Service) AddCategory(ctx context.Context, productID, categoryID int64) (*ProductDTO, error) {
	p, err := s.checkPair(ctx, productID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddCategory(ctx, productID, categoryID); err != nil {
		return nil, err
	}
	return s.enrich(ctx, ToDTO(p))
}

// RemoveCategory unlinks a category from a product. Removing a link that does
// not exist is a no-op. Returns the enriched product.
func (s *Service) RemoveCategory(ctx context.Context, productID, categoryID int64) (*ProductDTO, error) {
	p, err := s.checkPair(ctx, productID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveCategory(ctx, productID, categoryID); err != nil {
		return nil, err
	}
	return s.enrich(ctx, ToDTO(p))
}

// checkPair verifies both sides of an association concurrently and returns
// the product row for the response.
func (s *Service) checkPair(ctx context.Context, productID, categoryID int64) (*Product, error) {
	var p *Product
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		found, err := s.repo.Get(gctx, productID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFound("Product", "id", productID)
			}
			return fmt.Errorf("get product: %w", err)
		}
		p = found
		return nil
	})
	g.Go(func() error {
		_, err := s.cats.Get(gctx, categoryID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFound("Category", "id", categoryID)
			}
			return fmt.Errorf("get category: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

// enrich replaces the DTO's category list with the full mapped set from the
// join table. The list is empty, never nil, when the product has no links.
func (s *Service) enrich(ctx context.Context, dto *ProductDTO) (*ProductDTO, error) {
	linked, err := s.cats.ListByProduct(ctx, dto.ID)
	if err != nil {
		return nil, fmt.Errorf("enrich product %d: %w", dto.ID, err)
	}
	dto.Categories = categories.ToDTOList(linked)
	return dto, nil
}

func (s *Service) enrichAll(ctx context.Context, rows []Product) ([]ProductDTO, error) {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dto, err := s.enrich(ctx, ToDTO(&rows[i]))
		if err != nil {
			return nil, err
		}
		out = append(out, *dto)
	}
	return out, nil
}
