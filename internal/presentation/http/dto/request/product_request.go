package request

// CreateProductRequest represents a menu item creation request
type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=255"`
	NameEn   string  `json:"name_en" binding:"omitempty,max=255"`
	Category string  `json:"category" binding:"omitempty,max=100"`
	Price    float64 `json:"price" binding:"min=0"`
	Branch   string  `json:"branch" binding:"omitempty,max=100"`
}

// UpdateProductRequest represents a menu item update request
type UpdateProductRequest struct {
	Name     *string  `json:"name" binding:"omitempty,min=1,max=255"`
	NameEn   *string  `json:"name_en" binding:"omitempty,max=255"`
	Category *string  `json:"category" binding:"omitempty,max=100"`
	Price    *float64 `json:"price" binding:"omitempty,min=0"`
	Branch   *string  `json:"branch" binding:"omitempty,max=100"`
	IsActive *bool    `json:"is_active"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search  string `form:"search"`
	Branch  string `form:"branch"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
