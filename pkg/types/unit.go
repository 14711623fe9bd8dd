package types

import (
	"fmt"
	"time"
)

type UnitStatus string

const (
	UnitStatusVacant           UnitStatus = "vacant"
	UnitStatusOccupied         UnitStatus = "occupied"
	UnitStatusUnderMaintenance UnitStatus = "under_maintenance"
	UnitStatusReserved         UnitStatus = "reserved"
)

func (s UnitStatus) Valid() bool {
	switch s {
	case UnitStatusVacant, UnitStatusOccupied, UnitStatusUnderMaintenance, UnitStatusReserved:
		return true
	}
	return false
}

type Unit struct {
	ID         string     `db:"id" json:"id"`
	PropertyID string     `db:"property_id" json:"property_id"`
	UnitNumber string     `db:"unit_number" json:"unit_number"`
	Status     UnitStatus `db:"status" json:"status"`
	Bedrooms   int        `db:"bedrooms" json:"bedrooms"`
	Bathrooms  int        `db:"bathrooms" json:"bathrooms"`
	RentAmount float64    `db:"rent_amount" json:"rent_amount"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// UnitID derives the stable unit identifier from its parent property
// and unit number.
func UnitID(propertyID, unitNumber string) string {
	return fmt.Sprintf("%s_%s", propertyID, unitNumber)
}

type UnitCreateInput struct {
	UnitNumber string  `json:"unit_number" validate:"required"`
	Bedrooms   int     `json:"bedrooms"`
	Bathrooms  int     `json:"bathrooms"`
	RentAmount float64 `json:"rent_amount"`
}

type UnitFilter struct {
	PropertyID string     `form:"-"`
	Status     UnitStatus `form:"status"`
}
