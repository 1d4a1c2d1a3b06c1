package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/catalog-api/internal/shared"
)

// Service owns the not-found and validation semantics for category
// operations. It holds no mutable state; everything lives in the store.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ToDTOList(rows), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*CategoryDTO, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFound("Category", "id", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return ToDTO(c), nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*CategoryDTO, error) {
	c, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFound("Category", "name", name)
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return ToDTO(c), nil
}

// Search matches a case-insensitive name fragment. An empty fragment matches
// every row; search never reports not-found.
func (s *Service) Search(ctx context.Context, fragment string) ([]CategoryDTO, error) {
	rows, err := s.repo.Search(ctx, fragment)
	if err != nil {
		return nil, err
	}
	return ToDTOList(rows), nil
}

// ListByProduct returns the categories joined to a product. The result is
// empty, never an error, when the product has no associations.
func (s *Service) ListByProduct(ctx context.Context, productID int64) ([]CategoryDTO, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToDTOList(rows), nil
}

// Create persists a new category. A duplicate name surfaces as the store's
// uniqueness violation, untouched.
func (s *Service) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error) {
	c := FromCreateRequest(&req)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return ToDTO(c), nil
}

// Update applies a partial overwrite: only fields present in the request
// replace the stored values.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCategoryRequest) (*CategoryDTO, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFound("Category", "id", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	ApplyUpdate(existing, &req)
	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFound("Category", "id", id)
		}
		return nil, err
	}
	return ToDTO(existing), nil
}

// Delete removes a category and, first, every join row referencing it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFound("Category", "id", id)
		}
		return err
	}
	return nil
}
