package products

import (
	"github.com/noah-isme/catalog-api/internal/catalog/categories"
)

// ToDTO converts a product row to its external representation. Nil in, nil
// out. The categories field starts empty; enrichment fills it after the
// primary fetch.
func ToDTO(p *Product) *ProductDTO {
	if p == nil {
		return nil
	}
	createdAt := p.CreatedAt
	updatedAt := p.UpdatedAt
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		SKU:         p.SKU,
		CreatedAt:   &createdAt,
		UpdatedAt:   &updatedAt,
		Categories:  []categories.CategoryDTO{},
	}
}

// FromCreateRequest builds a new product row from a create request. The
// repository assigns id and timestamps on insert.
func FromCreateRequest(req *CreateProductRequest) *Product {
	if req == nil {
		return nil
	}
	return &Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SKU:         req.SKU,
	}
}

// ApplyUpdate overwrites only the fields present in the request, leaving
// absent fields untouched.
func ApplyUpdate(p *Product, req *UpdateProductRequest) {
	if p == nil || req == nil {
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
}
