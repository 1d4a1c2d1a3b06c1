package products

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/catalog-api/internal/catalog/categories"
	"github.com/noah-isme/catalog-api/internal/shared"
)

// ProductDTO is the externally visible shape of a product. Categories are
// never part of the primary row; they are filled in by a dependent lookup and
// the field is always present, empty when the product has no links.
type ProductDTO struct {
	ID          int64                    `json:"id"`
	Name        string                   `json:"name"`
	Description *string                  `json:"description,omitempty"`
	Price       decimal.Decimal          `json:"price"`
	SKU         string                   `json:"sku"`
	CreatedAt   *time.Time               `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time               `json:"updatedAt,omitempty"`
	Categories  []categories.CategoryDTO `json:"categories"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=255"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	SKU         string          `json:"sku" validate:"required,min=3,max=50"`
}

// Validate combines tag validation with the price positivity check the
// validator cannot express on a decimal.
func (r *CreateProductRequest) Validate() error {
	ve := collectFieldErrors(shared.Validate(*r))
	if !r.Price.IsPositive() {
		if ve == nil {
			ve = &shared.ValidationError{}
		}
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "price", Reason: "must be greater than 0"})
	}
	if ve != nil {
		return ve
	}
	return nil
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	SKU         *string          `json:"sku,omitempty" validate:"omitempty,min=3,max=50"`
}

func (r *UpdateProductRequest) Validate() error {
	ve := collectFieldErrors(shared.Validate(*r))
	if r.Price != nil && !r.Price.IsPositive() {
		if ve == nil {
			ve = &shared.ValidationError{}
		}
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "price", Reason: "must be greater than 0"})
	}
	if ve != nil {
		return ve
	}
	return nil
}

func collectFieldErrors(err error) *shared.ValidationError {
	if err == nil {
		return nil
	}
	var ve *shared.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return &shared.ValidationError{Fields: []shared.FieldError{{Field: "request", Reason: err.Error()}}}
}
