package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name    string  `json:"name" binding:"required,min=1,max=255"`
	NameEn  string  `json:"name_en" binding:"omitempty,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	TaxID   *string `json:"tax_id" binding:"omitempty,max=100"`
	Address *string `json:"address"`
	Branch  string  `json:"branch" binding:"omitempty,max=100"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	NameEn  *string `json:"name_en" binding:"omitempty,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	TaxID   *string `json:"tax_id" binding:"omitempty,max=100"`
	Address *string `json:"address"`
	Branch  *string `json:"branch" binding:"omitempty,max=100"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
