package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"crm-backend/internal/dto"
	"crm-backend/internal/middleware"
	"crm-backend/internal/services"
)

type LeadHandler struct {
	leadService *services.LeadService
	authService *services.AuthService
}

func NewLeadHandler(leadService *services.LeadService, authService *services.AuthService) *LeadHandler {
	return &LeadHandler{leadService: leadService, authService: authService}
}

func (h *LeadHandler) List(c *fiber.Ctx) error {
	params := services.ListLeadsParams{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	if raw := c.Query("customer"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: "Invalid customer ID",
			})
		}
		params.CustomerID = &customerID
	}

	leads, total, err := h.leadService.List(params)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error while fetching leads",
		})
	}

	return c.JSON(dto.LeadListResponse{
		Success:    true,
		Data:       leads,
		Pagination: paginate(params.Page, params.Limit, total),
	})
}

func (h *LeadHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid lead ID",
		})
	}

	lead, err := h.leadService.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Success: false, Message: "Lead not found",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": lead})
}

func (h *LeadHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	var req dto.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	lead, err := h.leadService.Create(userID, &req)
	if err != nil {
		switch {
		case services.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		case errors.Is(err, services.ErrCustomerNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Customer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error while creating lead",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Lead created successfully",
		"data":    lead,
	})
}

func (h *LeadHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid lead ID",
		})
	}

	var req dto.UpdateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	lead, err := h.leadService.Update(id, &req)
	if err != nil {
		switch {
		case services.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		case errors.Is(err, services.ErrLeadNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Lead not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error while updating lead",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lead updated successfully",
		"data":    lead,
	})
}

func (h *LeadHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid lead ID",
		})
	}

	actor, err := h.authService.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	if err := h.leadService.Delete(id, actor); err != nil {
		switch {
		case errors.Is(err, services.ErrLeadNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Lead not found",
			})
		case errors.Is(err, services.ErrNotLeadOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Success: false, Message: "Not authorized to delete this lead",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error while deleting lead",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Lead deleted successfully",
	})
}

func (h *LeadHandler) AddNote(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid lead ID",
		})
	}

	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid request body",
		})
	}

	note, err := h.leadService.AddNote(id, userID, req.Content)
	if err != nil {
		switch {
		case services.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Success: false, Message: err.Error(),
			})
		case errors.Is(err, services.ErrLeadNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Lead not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error while adding note",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Note added successfully",
		"data":    note,
	})
}

func (h *LeadHandler) ListByCustomer(c *fiber.Ctx) error {
	customerID, err := uuid.Parse(c.Params("customerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Success: false, Message: "Invalid customer ID",
		})
	}

	leads, err := h.leadService.ListByCustomer(customerID, c.Query("status"))
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Success: false, Message: "Customer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Success: false, Message: "Server error while fetching customer leads",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": leads})
}
