package dto

import (
	"time"

	"github.com/google/uuid"

	"crm-backend/internal/models"
)

type CreateLeadRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Status            string     `json:"status,omitempty"`
	Value             *float64   `json:"value"`
	Priority          string     `json:"priority,omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	CustomerID        uuid.UUID  `json:"customer"`
	AssignedToID      *uuid.UUID `json:"assignedTo,omitempty"`
}

// UpdateLeadRequest is a partial update; nil/empty fields are left unchanged.
type UpdateLeadRequest struct {
	Title             string     `json:"title,omitempty"`
	Description       string     `json:"description,omitempty"`
	Status            string     `json:"status,omitempty"`
	Value             *float64   `json:"value,omitempty"`
	Priority          string     `json:"priority,omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	AssignedToID      *uuid.UUID `json:"assignedTo,omitempty"`
}

type AddNoteRequest struct {
	Content string `json:"content"`
}

type LeadListResponse struct {
	Success    bool          `json:"success"`
	Data       []models.Lead `json:"data"`
	Pagination Pagination    `json:"pagination"`
}
