package services

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"crm-backend/internal/dto"
	"crm-backend/internal/models"
)

type LeadService struct {
	db *gorm.DB
}

func NewLeadService(db *gorm.DB) *LeadService {
	return &LeadService{db: db}
}

type ListLeadsParams struct {
	Page       int
	Limit      int
	Status     string
	Priority   string
	CustomerID *uuid.UUID
}

func (s *LeadService) List(params ListLeadsParams) ([]models.Lead, int64, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := s.db.Model(&models.Lead{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Priority != "" {
		query = query.Where("priority = ?", params.Priority)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	var leads []models.Lead
	err := query.Preload("Customer").
		Preload("CreatedBy").
		Preload("AssignedTo").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&leads).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, total, nil
}

func (s *LeadService) Get(id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.Preload("Customer").
		Preload("CreatedBy").
		Preload("AssignedTo").
		First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, ErrLeadNotFound
	}
	return &lead, nil
}

// Create validates the payload and checks referential integrity of the
// customer reference before inserting.
func (s *LeadService) Create(createdBy uuid.UUID, req *dto.CreateLeadRequest) (*models.Lead, error) {
	if err := validateLeadFields(req.Title, req.Description, req.Status, req.Priority, false); err != nil {
		return nil, err
	}
	if req.Value == nil {
		return nil, validationErr("Lead value is required")
	}
	if *req.Value < 0 {
		return nil, validationErr("Value must be a positive number")
	}
	if req.CustomerID == uuid.Nil {
		return nil, validationErr("Valid customer ID is required")
	}

	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", req.CustomerID).Error; err != nil {
		return nil, ErrCustomerNotFound
	}

	status := req.Status
	if status == "" {
		status = models.LeadNew
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	lead := models.Lead{
		Title:             strings.TrimSpace(req.Title),
		Description:       strings.TrimSpace(req.Description),
		Status:            status,
		Value:             *req.Value,
		Priority:          priority,
		ExpectedCloseDate: req.ExpectedCloseDate,
		CustomerID:        req.CustomerID,
		CreatedByID:       createdBy,
		AssignedToID:      req.AssignedToID,
		Notes:             datatypes.JSON("[]"),
	}

	if err := s.db.Create(&lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return s.Get(lead.ID)
}

func (s *LeadService) Update(id uuid.UUID, req *dto.UpdateLeadRequest) (*models.Lead, error) {
	var lead models.Lead
	if err := s.db.First(&lead, "id = ?", id).Error; err != nil {
		return nil, ErrLeadNotFound
	}

	if err := validateLeadFields(req.Title, req.Description, req.Status, req.Priority, true); err != nil {
		return nil, err
	}
	if req.Value != nil && *req.Value < 0 {
		return nil, validationErr("Value must be a positive number")
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = strings.TrimSpace(req.Title)
	}
	if req.Description != "" {
		updates["description"] = strings.TrimSpace(req.Description)
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Value != nil {
		updates["value"] = *req.Value
	}
	if req.Priority != "" {
		updates["priority"] = req.Priority
	}
	if req.ExpectedCloseDate != nil {
		updates["expected_close_date"] = *req.ExpectedCloseDate
	}
	if req.AssignedToID != nil {
		updates["assigned_to_id"] = *req.AssignedToID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&lead).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update lead: %w", err)
		}
	}

	return s.Get(id)
}

// Delete is permitted only for the lead's creator or an administrator.
func (s *LeadService) Delete(id uuid.UUID, actor *models.User) error {
	var lead models.Lead
	if err := s.db.First(&lead, "id = ?", id).Error; err != nil {
		return ErrLeadNotFound
	}

	if lead.CreatedByID != actor.ID && actor.Role != models.RoleAdmin {
		return ErrNotLeadOwner
	}

	if err := s.db.Delete(&lead).Error; err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return nil
}

// AddNote appends to the lead's ordered notes sequence.
func (s *LeadService) AddNote(id, author uuid.UUID, content string) (*models.LeadNote, error) {
	content = strings.TrimSpace(content)
	if len(content) < 1 || len(content) > 300 {
		return nil, validationErr("Note content must be between 1 and 300 characters")
	}

	var lead models.Lead
	if err := s.db.First(&lead, "id = ?", id).Error; err != nil {
		return nil, ErrLeadNotFound
	}

	var notes []models.LeadNote
	if len(lead.Notes) > 0 {
		if err := json.Unmarshal(lead.Notes, &notes); err != nil {
			return nil, fmt.Errorf("failed to decode lead notes: %w", err)
		}
	}

	note := models.LeadNote{
		Content:     content,
		CreatedByID: author,
		CreatedAt:   time.Now().UTC(),
	}
	notes = append(notes, note)

	encoded, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lead notes: %w", err)
	}

	if err := s.db.Model(&lead).Update("notes", datatypes.JSON(encoded)).Error; err != nil {
		return nil, fmt.Errorf("failed to save lead note: %w", err)
	}

	return &note, nil
}

// ListByCustomer returns a customer's leads, optionally filtered by status.
func (s *LeadService) ListByCustomer(customerID uuid.UUID, status string) ([]models.Lead, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", customerID).Error; err != nil {
		return nil, ErrCustomerNotFound
	}

	query := s.db.Where("customer_id = ?", customerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var leads []models.Lead
	err := query.Preload("CreatedBy").
		Preload("AssignedTo").
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customer leads: %w", err)
	}
	return leads, nil
}

func validateLeadFields(title, description, status, priority string, partial bool) error {
	if title != "" || !partial {
		if t := strings.TrimSpace(title); len(t) < 2 || len(t) > 100 {
			return validationErr("Title must be between 2 and 100 characters")
		}
	}
	if description != "" || !partial {
		if d := strings.TrimSpace(description); len(d) < 5 || len(d) > 500 {
			return validationErr("Description must be between 5 and 500 characters")
		}
	}
	if status != "" && !slices.Contains(models.LeadStatuses, status) {
		return validationErr("Invalid status")
	}
	if priority != "" && !slices.Contains(models.LeadPriorities, priority) {
		return validationErr("Invalid priority")
	}
	return nil
}
