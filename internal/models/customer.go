package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer statuses.
const (
	CustomerActive   = "active"
	CustomerInactive = "inactive"
	CustomerProspect = "prospect"
)

// Address is an optional structured sub-record embedded into Customer.
type Address struct {
	Street  string `gorm:"size:255" json:"street,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`
	State   string `gorm:"size:100" json:"state,omitempty"`
	ZipCode string `gorm:"size:20" json:"zipCode,omitempty"`
	Country string `gorm:"size:100" json:"country,omitempty"`
}

// Customer cannot be deleted while any Lead still references it.
type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone       string    `gorm:"size:30;not null" json:"phone"`
	Company     string    `gorm:"size:100;not null" json:"company"`
	Address     Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Notes       string    `gorm:"size:500" json:"notes"`
	Status      string    `gorm:"size:20;default:'prospect'" json:"status"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"createdById"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate ensures UUID is set before creation
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
