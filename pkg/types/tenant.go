package types

import "time"

// Tenant carries the tenant profile plus the lease terms binding the
// tenant to a unit. One row per tenant, keyed by the user id.
type Tenant struct {
	UserID             string     `db:"user_id" json:"user_id"`
	FullName           *string    `db:"full_name" json:"full_name"`
	Phone              *string    `db:"phone" json:"phone"`
	EmergencyContact   *string    `db:"emergency_contact" json:"emergency_contact"`
	UnitID             *string    `db:"unit_id" json:"unit_id"`
	RentAmount         float64    `db:"rent_amount" json:"rent_amount"`
	LeaseStart         *time.Time `db:"lease_start" json:"lease_start"`
	LeaseEnd           *time.Time `db:"lease_end" json:"lease_end"`
	LeaseDocumentURL   *string    `db:"lease_document_url" json:"lease_document_url"`
	DocumentUploadDate *time.Time `db:"document_upload_date" json:"document_upload_date"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

type TenantFilter struct {
	PropertyID string
	UnitID     string
}

// TenantDetail is the staff/admin listing shape: user record joined
// with the tenant profile and lease.
type TenantDetail struct {
	ID       string  `json:"id"`
	UserInfo *User   `json:"user_info"`
	Profile  *Tenant `json:"profile"`
}
