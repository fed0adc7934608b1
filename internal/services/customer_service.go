package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crm-backend/internal/dto"
	"crm-backend/internal/models"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]+$`)

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

type ListCustomersParams struct {
	Page   int
	Limit  int
	Search string
	Status string
}

func (s *CustomerService) List(params ListCustomersParams) ([]models.Customer, int64, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := s.db.Model(&models.Customer{})

	if params.Search != "" {
		needle := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?",
			needle, needle, needle,
		)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	var customers []models.Customer
	err := query.Preload("CreatedBy").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, total, nil
}

// Get returns the customer together with its leads, newest first.
func (s *CustomerService) Get(id uuid.UUID) (*models.Customer, []models.Lead, error) {
	var customer models.Customer
	if err := s.db.Preload("CreatedBy").First(&customer, "id = ?", id).Error; err != nil {
		return nil, nil, ErrCustomerNotFound
	}

	var leads []models.Lead
	err := s.db.Where("customer_id = ?", id).
		Preload("CreatedBy").
		Preload("AssignedTo").
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load customer leads: %w", err)
	}

	return &customer, leads, nil
}

func (s *CustomerService) Create(createdBy uuid.UUID, req *dto.CreateCustomerRequest) (*models.Customer, error) {
	if err := validateCustomerFields(req.Name, req.Phone, req.Company, req.Notes, req.Status, false); err != nil {
		return nil, err
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	var existing models.Customer
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrCustomerEmailTaken
	}

	status := req.Status
	if status == "" {
		status = models.CustomerProspect
	}

	customer := models.Customer{
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		Phone:       req.Phone,
		Company:     strings.TrimSpace(req.Company),
		Notes:       req.Notes,
		Status:      status,
		CreatedByID: createdBy,
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}

	if err := s.db.Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCustomerEmailTaken
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.db.Preload("CreatedBy").First(&customer, "id = ?", customer.ID)
	return &customer, nil
}

func (s *CustomerService) Update(id uuid.UUID, req *dto.UpdateCustomerRequest) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", id).Error; err != nil {
		return nil, ErrCustomerNotFound
	}

	if err := validateCustomerFields(req.Name, req.Phone, req.Company, notesOrEmpty(req.Notes), req.Status, true); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		email, err := normalizeEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if email != customer.Email {
			var existing models.Customer
			if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
				return nil, ErrCustomerEmailTaken
			}
			updates["email"] = email
		}
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Company != "" {
		updates["company"] = strings.TrimSpace(req.Company)
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.Address != nil {
		updates["address_street"] = req.Address.Street
		updates["address_city"] = req.Address.City
		updates["address_state"] = req.Address.State
		updates["address_zip_code"] = req.Address.ZipCode
		updates["address_country"] = req.Address.Country
	}

	if len(updates) > 0 {
		if err := s.db.Model(&customer).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrCustomerEmailTaken
			}
			return nil, fmt.Errorf("failed to update customer: %w", err)
		}
	}

	s.db.Preload("CreatedBy").First(&customer, "id = ?", id)
	return &customer, nil
}

// Delete refuses to remove a customer that still has leads.
func (s *CustomerService) Delete(id uuid.UUID) error {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", id).Error; err != nil {
		return ErrCustomerNotFound
	}

	var leadCount int64
	if err := s.db.Model(&models.Lead{}).Where("customer_id = ?", id).Count(&leadCount).Error; err != nil {
		return fmt.Errorf("failed to count customer leads: %w", err)
	}
	if leadCount > 0 {
		return ErrCustomerHasLeads
	}

	if err := s.db.Delete(&customer).Error; err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func validateCustomerFields(name, phone, company, notes, status string, partial bool) error {
	if name != "" || !partial {
		if n := strings.TrimSpace(name); len(n) < 2 || len(n) > 100 {
			return validationErr("Name must be between 2 and 100 characters")
		}
	}
	if phone != "" || !partial {
		if !phonePattern.MatchString(phone) {
			return validationErr("Please enter a valid phone number")
		}
	}
	if company != "" || !partial {
		if c := strings.TrimSpace(company); len(c) < 2 || len(c) > 100 {
			return validationErr("Company must be between 2 and 100 characters")
		}
	}
	if len(notes) > 500 {
		return validationErr("Notes cannot be more than 500 characters")
	}
	if status != "" && status != models.CustomerActive && status != models.CustomerInactive && status != models.CustomerProspect {
		return validationErr("Invalid status")
	}
	return nil
}

func notesOrEmpty(notes *string) string {
	if notes == nil {
		return ""
	}
	return *notes
}
