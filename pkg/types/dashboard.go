package types

import "time"

// UserDashboard is the tenant-facing view.
type UserDashboard struct {
	Profile             *Tenant               `json:"profile"`
	Lease               *LeaseSummary         `json:"lease"`
	MaintenanceRequests []*MaintenanceRequest `json:"maintenance_requests"`
	Payments            []*Payment            `json:"payments"`
	UpcomingRent        *UpcomingRent         `json:"upcoming_rent,omitempty"`
	UnreadNotifications int                   `json:"unread_notifications"`
}

type LeaseSummary struct {
	UnitID             *string    `json:"unit_id"`
	RentAmount         float64    `json:"rent_amount"`
	LeaseStart         *time.Time `json:"lease_start"`
	LeaseEnd           *time.Time `json:"lease_end"`
	LeaseDocumentURL   *string    `json:"lease_document_url"`
	DocumentUploadDate *time.Time `json:"document_upload_date"`
}

type UpcomingRent struct {
	Amount       float64   `json:"amount"`
	DueDate      time.Time `json:"due_date"`
	DaysUntilDue int       `json:"days_until_due"`
}

// StaffDashboard summarizes the caller's assigned maintenance workload.
type StaffDashboard struct {
	AssignedTasks  AssignedTasks         `json:"assigned_tasks"`
	RecentActivity []*MaintenanceRequest `json:"recent_activity"`
	Performance    StaffPerformance      `json:"performance"`
}

type AssignedTasks struct {
	Open          []*MaintenanceRequest `json:"open"`
	Resolved      []*MaintenanceRequest `json:"resolved"`
	TotalOpen     int                   `json:"total_open"`
	TotalResolved int                   `json:"total_resolved"`
}

type StaffPerformance struct {
	TasksCompletedMonth int     `json:"tasks_completed_month"`
	TotalAssigned       int     `json:"total_assigned"`
	CompletionRate      float64 `json:"completion_rate"`
}

// AdminDashboard is the portfolio-wide view.
type AdminDashboard struct {
	Overview         AdminOverview    `json:"overview"`
	RecentActivities []RecentActivity `json:"recent_activities"`
	Financials       KPIStats         `json:"financials"`
}

type AdminOverview struct {
	TotalProperties       int     `json:"total_properties"`
	TotalUnits            int     `json:"total_units"`
	OccupiedUnits         int     `json:"occupied_units"`
	VacancyRate           float64 `json:"vacancy_rate"`
	OccupancyRate         float64 `json:"occupancy_rate"`
	TotalMonthlyRent      float64 `json:"total_monthly_rent"`
	RentCollectedMonth    float64 `json:"rent_collected_this_month"`
	CollectionRate        float64 `json:"collection_rate"`
	OpenMaintenanceCount  int     `json:"open_maintenance_requests"`
	ResolvedThisMonth     int     `json:"resolved_this_month"`
}

type RecentActivity struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}
