package services

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crm-backend/internal/config"
	"crm-backend/internal/models"
	"crm-backend/internal/token"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled in-memory SQLite hands each connection its own database;
	// pin the pool to one connection so every query sees the same data.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Lead{},
	))
	return db
}

// fakeMailer records sent mail and can be told to fail.
type fakeMailer struct {
	sent []sentMail
	fail error
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(to, subject, html string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: html})
	return nil
}

func newTestAuthService(t *testing.T, db *gorm.DB, m *fakeMailer) *AuthService {
	t.Helper()
	issuer := token.NewIssuer("test-secret", time.Hour, 24*time.Hour)
	cfg := &config.Config{BaseURL: "http://localhost:8080"}
	return NewAuthService(db, issuer, m, cfg)
}

func seedUser(t *testing.T, db *gorm.DB, email, role string, verified bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:            "Test User",
		Email:           email,
		Password:        string(hash),
		Role:            role,
		IsActive:        true,
		IsEmailVerified: verified,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCustomer(t *testing.T, db *gorm.DB, createdBy uuid.UUID, name, email string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		Name:        name,
		Email:       email,
		Phone:       "+1 555 0100",
		Company:     "Acme Inc",
		Status:      models.CustomerActive,
		CreatedByID: createdBy,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedLead(t *testing.T, db *gorm.DB, customerID, createdBy uuid.UUID, status string, value float64) *models.Lead {
	t.Helper()
	lead := &models.Lead{
		Title:       "Website redesign",
		Description: "Full redesign of the marketing site",
		Status:      status,
		Value:       value,
		Priority:    models.PriorityMedium,
		CustomerID:  customerID,
		CreatedByID: createdBy,
		Notes:       []byte("[]"),
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

func requireValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, IsValidation(err), "expected validation error, got %v", err)
}

var errSMTPDown = errors.New("smtp: connection refused")
