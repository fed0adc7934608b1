package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"crm-backend/internal/dto"
	"crm-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error while fetching dashboard statistics",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// LeadsChart serves the chart series selected by ?type=status|priority|monthly.
func (h *DashboardHandler) LeadsChart(c *fiber.Ctx) error {
	chartType := c.Query("type", "status")

	var points []dto.ChartPoint

	switch chartType {
	case "status":
		byStatus, err := h.dashboardService.LeadsByStatus()
		if err != nil {
			return chartError(c)
		}
		for status, b := range byStatus {
			value := b.TotalValue
			points = append(points, dto.ChartPoint{Label: status, Count: b.Count, Value: &value})
		}
	case "priority":
		byPriority, err := h.dashboardService.LeadsByPriority()
		if err != nil {
			return chartError(c)
		}
		for priority, count := range byPriority {
			points = append(points, dto.ChartPoint{Label: priority, Count: count})
		}
	case "monthly":
		trend, err := h.dashboardService.MonthlyTrend(12)
		if err != nil {
			return chartError(c)
		}
		for _, p := range trend {
			value := p.TotalValue
			points = append(points, dto.ChartPoint{
				Label: fmt.Sprintf("%d/%d", p.Month, p.Year),
				Count: p.Count,
				Value: &value,
			})
		}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid chart type",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": points})
}

func (h *DashboardHandler) ConversionFunnel(c *fiber.Ctx) error {
	funnel, err := h.dashboardService.ConversionFunnel()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error while fetching conversion funnel data",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": funnel})
}

func (h *DashboardHandler) RecentActivities(c *fiber.Ctx) error {
	activities, err := h.dashboardService.RecentActivities(c.QueryInt("limit", 10))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error while fetching recent activities",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": activities})
}

func chartError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Success: false, Message: "Server error while fetching chart data",
	})
}
