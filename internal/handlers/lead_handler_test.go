package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-backend/internal/models"
)

func TestLeadCrudOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	user, session := env.seedVerifiedUser(t, "user@example.com", models.RoleUser)
	customer := env.seedCustomer(t, user, "Acme", "acme@example.com")

	resp := env.request(t, fiber.MethodPost, "/api/leads/", fiber.Map{
		"title":       "Enterprise deal",
		"description": "Multi-year enterprise contract",
		"value":       50000,
		"customer":    customer.ID.String(),
	}, session)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	leadID := data["id"].(string)
	assert.Equal(t, models.LeadNew, data["status"])
	assert.Equal(t, models.PriorityMedium, data["priority"])

	// Unknown customer reference is a 404, not a validation error.
	resp = env.request(t, fiber.MethodPost, "/api/leads/", fiber.Map{
		"title":       "Orphan deal",
		"description": "References a missing customer",
		"value":       100,
		"customer":    uuid.NewString(),
	}, session)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, fiber.MethodPut, "/api/leads/"+leadID, fiber.Map{
		"status": models.LeadContacted,
	}, session)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, models.LeadContacted, data["status"])

	resp = env.request(t, fiber.MethodPost, "/api/leads/"+leadID+"/notes", fiber.Map{
		"content": "Called, asked for a quote",
	}, session)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	note := body["data"].(map[string]interface{})
	assert.Equal(t, "Called, asked for a quote", note["content"])

	resp = env.request(t, fiber.MethodGet, "/api/leads/customer/"+customer.ID.String(), nil, session)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	leads := body["data"].([]interface{})
	assert.Len(t, leads, 1)
}

func TestLeadDeleteOwnershipOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerSession := env.seedVerifiedUser(t, "owner@example.com", models.RoleUser)
	_, otherSession := env.seedVerifiedUser(t, "other@example.com", models.RoleUser)
	customer := env.seedCustomer(t, owner, "Acme", "acme@example.com")

	lead := &models.Lead{
		Title:       "Deal",
		Description: "An open opportunity",
		Status:      models.LeadNew,
		Value:       100,
		Priority:    models.PriorityMedium,
		CustomerID:  customer.ID,
		CreatedByID: owner.ID,
		Notes:       []byte("[]"),
	}
	require.NoError(t, env.db.Create(lead).Error)

	resp := env.request(t, fiber.MethodDelete, "/api/leads/"+lead.ID.String(), nil, otherSession)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Not authorized to delete this lead", body["message"])

	resp = env.request(t, fiber.MethodDelete, "/api/leads/"+lead.ID.String(), nil, ownerSession)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, fiber.MethodDelete, "/api/leads/"+lead.ID.String(), nil, ownerSession)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
