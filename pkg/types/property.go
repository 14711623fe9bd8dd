package types

import "time"

type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusInactive PropertyStatus = "inactive"
)

type Property struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Address       string         `db:"address" json:"address"`
	City          *string        `db:"city" json:"city"`
	Type          string         `db:"type" json:"type"`
	TotalUnits    int            `db:"total_units" json:"total_units"`
	OccupiedUnits int            `db:"occupied_units" json:"occupied_units"`
	VacantUnits   int            `db:"vacant_units" json:"vacant_units"`
	Description   *string        `db:"description" json:"description"`
	Amenities     []string       `db:"amenities" json:"amenities"`
	Status        PropertyStatus `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

type PropertyCreateInput struct {
	Name        string   `json:"name" validate:"required"`
	Address     string   `json:"address" validate:"required"`
	City        *string  `json:"city"`
	Type        string   `json:"type" validate:"required"`
	TotalUnits  int      `json:"total_units" validate:"required,gt=0"`
	Description *string  `json:"description"`
	Amenities   []string `json:"amenities"`
}

type PropertyUpdateInput struct {
	Name        *string         `json:"name"`
	Address     *string         `json:"address"`
	City        *string         `json:"city"`
	Type        *string         `json:"type"`
	TotalUnits  *int            `json:"total_units"`
	Description *string         `json:"description"`
	Amenities   []string        `json:"amenities"`
	Status      *PropertyStatus `json:"status"`
}

type PropertyFilter struct {
	City   string `form:"city"`
	Search string `form:"search"`
}
