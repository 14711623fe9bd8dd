package types

import "time"

type MaintenanceStatus string

const (
	MaintenanceStatusSubmitted  MaintenanceStatus = "submitted"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusResolved   MaintenanceStatus = "resolved"
	MaintenanceStatusClosed     MaintenanceStatus = "closed"
)

// statusRank orders the one-directional lifecycle. Transitions may only
// move to an equal or higher rank.
var statusRank = map[MaintenanceStatus]int{
	MaintenanceStatusSubmitted:  0,
	MaintenanceStatusInProgress: 1,
	MaintenanceStatusResolved:   2,
	MaintenanceStatusClosed:     3,
}

func (s MaintenanceStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

func (s MaintenanceStatus) CanTransitionTo(next MaintenanceStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

func (s MaintenanceStatus) Terminal() bool {
	return s == MaintenanceStatusResolved || s == MaintenanceStatusClosed
}

type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "low"
	UrgencyMedium    UrgencyLevel = "medium"
	UrgencyHigh      UrgencyLevel = "high"
	UrgencyEmergency UrgencyLevel = "emergency"
)

type MaintenanceRequest struct {
	ID          string            `db:"id" json:"id"`
	TenantID    string            `db:"tenant_id" json:"tenant_id"`
	UnitID      string            `db:"unit_id" json:"unit_id"`
	Title       string            `db:"title" json:"title"`
	Description *string           `db:"description" json:"description"`
	Category    *string           `db:"category" json:"category"`
	Urgency     UrgencyLevel      `db:"urgency" json:"urgency"`
	Status      MaintenanceStatus `db:"status" json:"status"`
	AssignedTo  *string           `db:"assigned_to" json:"assigned_to"`
	Priority    *string           `db:"priority" json:"priority"`
	PhotoURLs   []string          `db:"photo_urls" json:"photo_urls"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// MaintenanceUpdate is one entry in a request's update log.
type MaintenanceUpdate struct {
	ID        string    `db:"id" json:"id"`
	RequestID string    `db:"request_id" json:"request_id"`
	Message   string    `db:"message" json:"message"`
	PostedBy  string    `db:"posted_by" json:"posted_by"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}

type MaintenanceCreateInput struct {
	Title       string       `json:"title" validate:"required"`
	Description *string      `json:"description"`
	Category    *string      `json:"category"`
	Urgency     UrgencyLevel `json:"urgency"`
}

type MaintenanceUpdateInput struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Category    *string            `json:"category"`
	Urgency     *UrgencyLevel      `json:"urgency"`
	Status      *MaintenanceStatus `json:"status"`
	Notes       *string            `json:"notes"`
}

type MaintenanceAssignInput struct {
	StaffID  string  `json:"staff_id" validate:"required"`
	Priority *string `json:"priority"`
}

type MaintenanceFilter struct {
	TenantID   string            `form:"-"`
	AssignedTo string            `form:"-"`
	Status     MaintenanceStatus `form:"status"`
	Limit      uint64            `form:"-"`
}
