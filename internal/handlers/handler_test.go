package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crm-backend/internal/config"
	"crm-backend/internal/database"
	"crm-backend/internal/handlers"
	"crm-backend/internal/models"
	"crm-backend/internal/routes"
	"crm-backend/internal/services"
	"crm-backend/internal/token"

	"github.com/gofiber/fiber/v2"
)

var errSMTPDownHTTP = errors.New("smtp: connection refused")

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	mailer *fakeMailer
	issuer *token.Issuer
	cfg    *config.Config
}

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

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	// The health check pings through the package-level handle.
	database.DB = db

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BaseURL:    "http://localhost:8080",
		AppScheme:  "crm",
		AdminToken: "test-admin-token",
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry, 24*time.Hour)
	m := &fakeMailer{}
	authService := services.NewAuthService(db, issuer, m, cfg)
	customerService := services.NewCustomerService(db)
	leadService := services.NewLeadService(db)
	dashboardService := services.NewDashboardService(db)

	app := fiber.New()
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(authService, cfg.AppScheme),
		handlers.NewCustomerHandler(customerService),
		handlers.NewLeadHandler(leadService, authService),
		handlers.NewDashboardHandler(dashboardService),
		handlers.NewHealthHandler(),
	)

	return &testEnv{app: app, db: db, mailer: m, issuer: issuer, cfg: cfg}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, bearer string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seedVerifiedUser inserts a user directly and mints a session for them,
// sidestepping the HTTP auth flow and its rate limit.
func (e *testEnv) seedVerifiedUser(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:            "Test User",
		Email:           email,
		Password:        string(hash),
		Role:            role,
		IsActive:        true,
		IsEmailVerified: true,
	}
	require.NoError(t, e.db.Create(user).Error)

	session, err := e.issuer.IssueSession(user.ID)
	require.NoError(t, err)
	return user, session
}

func (e *testEnv) seedCustomer(t *testing.T, createdBy *models.User, name, email string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		Name:        name,
		Email:       email,
		Phone:       "+1 555 0100",
		Company:     "Acme Inc",
		Status:      models.CustomerActive,
		CreatedByID: createdBy.ID,
	}
	require.NoError(t, e.db.Create(customer).Error)
	return customer
}
