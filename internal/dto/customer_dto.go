package dto

import "crm-backend/internal/models"

type CreateCustomerRequest struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Company string          `json:"company"`
	Address *models.Address `json:"address,omitempty"`
	Notes   string          `json:"notes,omitempty"`
	Status  string          `json:"status,omitempty"`
}

// UpdateCustomerRequest is a partial update; empty fields are left unchanged.
type UpdateCustomerRequest struct {
	Name    string          `json:"name,omitempty"`
	Email   string          `json:"email,omitempty"`
	Phone   string          `json:"phone,omitempty"`
	Company string          `json:"company,omitempty"`
	Address *models.Address `json:"address,omitempty"`
	Notes   *string         `json:"notes,omitempty"`
	Status  string          `json:"status,omitempty"`
}

type CustomerListResponse struct {
	Success    bool              `json:"success"`
	Data       []models.Customer `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// CustomerDetail bundles a customer with its leads for the detail endpoint.
type CustomerDetail struct {
	models.Customer
	Leads []models.Lead `json:"leads"`
}
