package types

import "time"

const (
	NotificationTypeTaskAssignment    = "task_assignment"
	NotificationTypeMaintenanceUpdate = "maintenance_update"
	NotificationTypePayment           = "payment"
	NotificationTypePush              = "push"
)

type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"read" json:"read"`
	DeepLink  *string   `db:"deep_link" json:"deep_link"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}
