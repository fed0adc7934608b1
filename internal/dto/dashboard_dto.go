package dto

import (
	"time"

	"github.com/google/uuid"
)

type OverviewStats struct {
	TotalCustomers      int64   `json:"totalCustomers"`
	TotalLeads          int64   `json:"totalLeads"`
	ActiveCustomers     int64   `json:"activeCustomers"`
	RecentCustomers     int64   `json:"recentCustomers"`
	RecentLeads         int64   `json:"recentLeads"`
	TotalLeadValue      float64 `json:"totalLeadValue"`
	ConvertedLeadsValue float64 `json:"convertedLeadsValue"`
}

type StatusBreakdown struct {
	Count      int64   `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

type MonthlyPoint struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Count      int64   `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

type TopCustomer struct {
	CustomerName    string  `json:"customerName"`
	CustomerCompany string  `json:"customerCompany"`
	TotalValue      float64 `json:"totalValue"`
	LeadCount       int64   `json:"leadCount"`
}

// DashboardStats is the /dashboard/stats payload. Each section reflects its
// own read snapshot; a concurrent write can land between sections, which is
// acceptable for a dashboard refresh.
type DashboardStats struct {
	Overview         OverviewStats              `json:"overview"`
	LeadsByStatus    map[string]StatusBreakdown `json:"leadsByStatus"`
	LeadsByPriority  map[string]int64           `json:"leadsByPriority"`
	MonthlyLeadTrend []MonthlyPoint             `json:"monthlyLeadTrend"`
	TopCustomers     []TopCustomer              `json:"topCustomers"`
}

type ChartPoint struct {
	Label string   `json:"label"`
	Count int64    `json:"count"`
	Value *float64 `json:"value,omitempty"`
}

type FunnelStage struct {
	Status     string  `json:"status"`
	Count      int64   `json:"count"`
	TotalValue float64 `json:"totalValue"`
	Percentage float64 `json:"percentage"`
}

type ConversionFunnel struct {
	Funnel         []FunnelStage `json:"funnel"`
	TotalLeads     int64         `json:"totalLeads"`
	ConversionRate float64       `json:"conversionRate"`
}

type Activity struct {
	Type        string    `json:"type"`
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Value       *float64  `json:"value,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
