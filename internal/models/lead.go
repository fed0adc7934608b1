package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lead statuses, in funnel order.
const (
	LeadNew       = "New"
	LeadContacted = "Contacted"
	LeadConverted = "Converted"
	LeadLost      = "Lost"
)

// Lead priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// LeadStatuses is the fixed conversion-funnel order. Not alphabetical.
var LeadStatuses = []string{LeadNew, LeadContacted, LeadConverted, LeadLost}

// LeadPriorities lists the accepted priority values.
var LeadPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// LeadNote is one entry of the ordered notes sequence stored on a lead.
type LeadNote struct {
	Content     string    `json:"content"`
	CreatedByID uuid.UUID `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Lead is a sales opportunity tied to a Customer. Value is validated to be
// non-negative before writes. Notes are kept as an append-only JSON array.
type Lead struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string         `gorm:"size:100;not null" json:"title"`
	Description       string         `gorm:"size:500;not null" json:"description"`
	Status            string         `gorm:"size:20;default:'New';index" json:"status"`
	Value             float64        `gorm:"not null" json:"value"`
	Priority          string         `gorm:"size:10;default:'Medium'" json:"priority"`
	ExpectedCloseDate *time.Time     `json:"expectedCloseDate,omitempty"`
	CustomerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"customerId"`
	Customer          *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedByID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"createdById"`
	CreatedBy         *User          `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	AssignedToID      *uuid.UUID     `gorm:"type:uuid" json:"assignedToId,omitempty"`
	AssignedTo        *User          `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	Notes             datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"notes"`
	CreatedAt         time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// BeforeCreate ensures UUID is set before creation
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
