package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User holds credentials and email-verification state. Emails are stored
// lower-cased so the unique index enforces case-insensitive uniqueness.
// EmailVerificationToken holds only the SHA-256 hash of the emailed token;
// the plaintext is never persisted.
type User struct {
	ID                       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name                     string     `gorm:"size:50;not null" json:"name"`
	Email                    string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password                 string     `gorm:"not null" json:"-"`
	Role                     string     `gorm:"size:20;default:'user'" json:"role"`
	IsActive                 bool       `gorm:"default:true" json:"isActive"`
	IsEmailVerified          bool       `gorm:"default:false" json:"isEmailVerified"`
	EmailVerificationToken   *string    `gorm:"size:64;index" json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

// BeforeCreate ensures UUID is set before creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
