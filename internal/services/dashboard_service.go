package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"crm-backend/internal/dto"
	"crm-backend/internal/models"
)

// DashboardService computes read-only aggregates over customers and leads.
// Each method takes its own snapshot; a dashboard refresh that issues
// several calls may observe slightly different instants, which is fine for
// this use.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats assembles the combined /dashboard/stats payload.
func (s *DashboardService) Stats() (*dto.DashboardStats, error) {
	overview, err := s.OverviewStats()
	if err != nil {
		return nil, err
	}

	byStatus, err := s.LeadsByStatus()
	if err != nil {
		return nil, err
	}

	byPriority, err := s.LeadsByPriority()
	if err != nil {
		return nil, err
	}

	trend, err := s.MonthlyTrend(6)
	if err != nil {
		return nil, err
	}

	top, err := s.TopCustomersByValue(5)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		Overview:         *overview,
		LeadsByStatus:    byStatus,
		LeadsByPriority:  byPriority,
		MonthlyLeadTrend: trend,
		TopCustomers:     top,
	}, nil
}

func (s *DashboardService) OverviewStats() (*dto.OverviewStats, error) {
	var stats dto.OverviewStats

	if err := s.db.Model(&models.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := s.db.Model(&models.Lead{}).Count(&stats.TotalLeads).Error; err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	if err := s.db.Model(&models.Customer{}).Where("status = ?", models.CustomerActive).Count(&stats.ActiveCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count active customers: %w", err)
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := s.db.Model(&models.Customer{}).Where("created_at >= ?", thirtyDaysAgo).Count(&stats.RecentCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent customers: %w", err)
	}
	if err := s.db.Model(&models.Lead{}).Where("created_at >= ?", thirtyDaysAgo).Count(&stats.RecentLeads).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent leads: %w", err)
	}

	if err := s.db.Model(&models.Lead{}).
		Select("COALESCE(SUM(value), 0)").
		Scan(&stats.TotalLeadValue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum lead value: %w", err)
	}
	if err := s.db.Model(&models.Lead{}).
		Where("status = ?", models.LeadConverted).
		Select("COALESCE(SUM(value), 0)").
		Scan(&stats.ConvertedLeadsValue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum converted lead value: %w", err)
	}

	return &stats, nil
}

type statusRow struct {
	Status     string
	Count      int64
	TotalValue float64
}

// LeadsByStatus maps each status actually present to its count and summed
// value. Absent statuses are not zero-filled here; the funnel does that.
func (s *DashboardService) LeadsByStatus() (map[string]dto.StatusBreakdown, error) {
	var rows []statusRow
	err := s.db.Model(&models.Lead{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(value), 0) as total_value").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group leads by status: %w", err)
	}

	result := make(map[string]dto.StatusBreakdown, len(rows))
	for _, r := range rows {
		result[r.Status] = dto.StatusBreakdown{Count: r.Count, TotalValue: r.TotalValue}
	}
	return result, nil
}

func (s *DashboardService) LeadsByPriority() (map[string]int64, error) {
	type priorityRow struct {
		Priority string
		Count    int64
	}

	var rows []priorityRow
	err := s.db.Model(&models.Lead{}).
		Select("priority, COUNT(*) as count").
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group leads by priority: %w", err)
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Priority] = r.Count
	}
	return result, nil
}

// MonthlyTrend folds the trailing window in-process so the grouping stays
// storage-agnostic, and returns points in ascending (year, month) order.
func (s *DashboardService) MonthlyTrend(monthsBack int) ([]dto.MonthlyPoint, error) {
	if monthsBack < 1 {
		monthsBack = 6
	}
	since := time.Now().AddDate(0, -monthsBack, 0)

	type leadRow struct {
		CreatedAt time.Time
		Value     float64
	}
	var rows []leadRow
	err := s.db.Model(&models.Lead{}).
		Select("created_at, value").
		Where("created_at >= ?", since).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load leads for trend: %w", err)
	}

	type yearMonth struct {
		year  int
		month int
	}
	buckets := make(map[yearMonth]*dto.MonthlyPoint)
	for _, r := range rows {
		key := yearMonth{r.CreatedAt.Year(), int(r.CreatedAt.Month())}
		point, ok := buckets[key]
		if !ok {
			point = &dto.MonthlyPoint{Year: key.year, Month: key.month}
			buckets[key] = point
		}
		point.Count++
		point.TotalValue += r.Value
	}

	trend := make([]dto.MonthlyPoint, 0, len(buckets))
	for _, point := range buckets {
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool {
		if trend[i].Year != trend[j].Year {
			return trend[i].Year < trend[j].Year
		}
		return trend[i].Month < trend[j].Month
	})
	return trend, nil
}

func (s *DashboardService) TopCustomersByValue(limit int) ([]dto.TopCustomer, error) {
	if limit < 1 {
		limit = 5
	}

	var top []dto.TopCustomer
	err := s.db.Table("leads").
		Select("customers.name as customer_name, customers.company as customer_company, COALESCE(SUM(leads.value), 0) as total_value, COUNT(*) as lead_count").
		Joins("JOIN customers ON customers.id = leads.customer_id").
		Group("leads.customer_id, customers.name, customers.company").
		Order("total_value DESC").
		Limit(limit).
		Scan(&top).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank customers by value: %w", err)
	}
	return top, nil
}

// ConversionFunnel always returns the four stages in fixed pipeline order,
// zero-filled where no leads exist.
func (s *DashboardService) ConversionFunnel() (*dto.ConversionFunnel, error) {
	byStatus, err := s.LeadsByStatus()
	if err != nil {
		return nil, err
	}

	var totalLeads int64
	for _, b := range byStatus {
		totalLeads += b.Count
	}

	funnel := make([]dto.FunnelStage, 0, len(models.LeadStatuses))
	for _, status := range models.LeadStatuses {
		b := byStatus[status]
		stage := dto.FunnelStage{
			Status:     status,
			Count:      b.Count,
			TotalValue: b.TotalValue,
		}
		if totalLeads > 0 {
			stage.Percentage = round1(float64(b.Count) / float64(totalLeads) * 100)
		}
		funnel = append(funnel, stage)
	}

	result := &dto.ConversionFunnel{
		Funnel:     funnel,
		TotalLeads: totalLeads,
	}
	if totalLeads > 0 {
		result.ConversionRate = round1(float64(byStatus[models.LeadConverted].Count) / float64(totalLeads) * 100)
	}
	return result, nil
}

// RecentActivities merges the latest leads and customers into one feed,
// newest first, truncated to limit entries in total.
func (s *DashboardService) RecentActivities(limit int) ([]dto.Activity, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var leads []models.Lead
	err := s.db.Preload("Customer").
		Order("created_at DESC").
		Limit(limit).
		Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent leads: %w", err)
	}

	var customers []models.Customer
	err = s.db.Order("created_at DESC").
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent customers: %w", err)
	}

	activities := make([]dto.Activity, 0, len(leads)+len(customers))
	for _, lead := range leads {
		value := lead.Value
		description := ""
		if lead.Customer != nil {
			description = lead.Customer.Name + " - " + lead.Customer.Company
		}
		activities = append(activities, dto.Activity{
			Type:        "lead",
			ID:          lead.ID,
			Title:       "New lead: " + lead.Title,
			Description: description,
			Status:      lead.Status,
			Value:       &value,
			CreatedAt:   lead.CreatedAt,
		})
	}
	for _, customer := range customers {
		activities = append(activities, dto.Activity{
			Type:        "customer",
			ID:          customer.ID,
			Title:       "New customer: " + customer.Name,
			Description: customer.Company,
			Status:      customer.Status,
			CreatedAt:   customer.CreatedAt,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
