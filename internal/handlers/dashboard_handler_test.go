package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-backend/internal/models"
)

func (e *testEnv) seedLeads(t *testing.T, user *models.User) {
	t.Helper()
	customer := e.seedCustomer(t, user, "Acme", "acme@example.com")
	for _, l := range []struct {
		status string
		value  float64
	}{
		{models.LeadNew, 100},
		{models.LeadContacted, 200},
		{models.LeadConverted, 700},
		{models.LeadConverted, 300},
	} {
		lead := &models.Lead{
			Title:       "Deal",
			Description: "An open opportunity",
			Status:      l.status,
			Value:       l.value,
			Priority:    models.PriorityMedium,
			CustomerID:  customer.ID,
			CreatedByID: user.ID,
			Notes:       []byte("[]"),
		}
		require.NoError(t, e.db.Create(lead).Error)
	}
}

func TestDashboardStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user, session := env.seedVerifiedUser(t, "user@example.com", models.RoleUser)
	env.seedLeads(t, user)

	resp := env.request(t, fiber.MethodGet, "/api/dashboard/stats", nil, session)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})

	overview := data["overview"].(map[string]interface{})
	assert.EqualValues(t, 1, overview["totalCustomers"])
	assert.EqualValues(t, 4, overview["totalLeads"])
	assert.EqualValues(t, 1300, overview["totalLeadValue"])
	assert.EqualValues(t, 1000, overview["convertedLeadsValue"])

	top := data["topCustomers"].([]interface{})
	require.Len(t, top, 1)
	assert.Equal(t, "Acme", top[0].(map[string]interface{})["customerName"])
}

func TestConversionFunnelEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user, session := env.seedVerifiedUser(t, "user@example.com", models.RoleUser)
	env.seedLeads(t, user)

	resp := env.request(t, fiber.MethodGet, "/api/dashboard/conversion-funnel", nil, session)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})

	assert.EqualValues(t, 4, data["totalLeads"])
	assert.EqualValues(t, 50, data["conversionRate"])

	funnel := data["funnel"].([]interface{})
	require.Len(t, funnel, 4)
	first := funnel[0].(map[string]interface{})
	assert.Equal(t, models.LeadNew, first["status"])
	assert.EqualValues(t, 25, first["percentage"])
	last := funnel[3].(map[string]interface{})
	assert.Equal(t, models.LeadLost, last["status"])
	assert.EqualValues(t, 0, last["count"])
}

func TestLeadsChartEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user, session := env.seedVerifiedUser(t, "user@example.com", models.RoleUser)
	env.seedLeads(t, user)

	for _, chartType := range []string{"status", "priority", "monthly"} {
		resp := env.request(t, fiber.MethodGet, "/api/dashboard/leads-chart?type="+chartType, nil, session)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, chartType)
		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"], chartType)
		assert.NotEmpty(t, body["data"], chartType)
	}

	resp := env.request(t, fiber.MethodGet, "/api/dashboard/leads-chart?type=bogus", nil, session)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid chart type", body["message"])
}

func TestRecentActivitiesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user, session := env.seedVerifiedUser(t, "user@example.com", models.RoleUser)
	env.seedLeads(t, user)

	resp := env.request(t, fiber.MethodGet, "/api/dashboard/recent-activities?limit=3", nil, session)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].([]interface{})
	assert.Len(t, data, 3)
}
