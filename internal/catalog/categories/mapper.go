package categories

// ToDTO converts a category row to its external representation. Nil in, nil
// out. Pure, no I/O.
func ToDTO(c *Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	createdAt := c.CreatedAt
	updatedAt := c.UpdatedAt
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   &createdAt,
		UpdatedAt:   &updatedAt,
	}
}

// ToDTOList maps a slice of rows, always returning a non-nil slice.
func ToDTOList(rows []Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ToDTO(&rows[i]))
	}
	return out
}

// FromCreateRequest builds a new category row from a create request.
// Timestamps are left zero; the repository assigns them on insert.
func FromCreateRequest(req *CreateCategoryRequest) *Category {
	if req == nil {
		return nil
	}
	return &Category{
		Name:        req.Name,
		Description: req.Description,
	}
}

// ApplyUpdate overwrites only the fields present in the request, leaving
// absent fields untouched.
func ApplyUpdate(c *Category, req *UpdateCategoryRequest) {
	if c == nil || req == nil {
		return
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
}
