package types

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleStaff  UserRole = "staff"
	UserRoleTenant UserRole = "tenant"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleStaff, UserRoleTenant:
		return true
	}
	return false
}

type User struct {
	ID               string    `db:"id" json:"uid"`
	Email            *string   `db:"email" json:"email"`
	Name             *string   `db:"name" json:"name"`
	Phone            *string   `db:"phone" json:"phone"`
	Role             UserRole  `db:"role" json:"role"`
	Apartment        *string   `db:"apartment" json:"apartment"`
	HouseNumber      *string   `db:"house_number" json:"house_number"`
	EmergencyContact *string   `db:"emergency_contact" json:"emergency_contact"`
	MoveInDate       *string   `db:"move_in_date" json:"move_in_date"`
	Balance          float64   `db:"balance" json:"balance"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

type UserUpdateInput struct {
	Name             *string   `json:"name"`
	Phone            *string   `json:"phone"`
	Role             *UserRole `json:"role"`
	Apartment        *string   `json:"apartment"`
	HouseNumber      *string   `json:"house_number"`
	EmergencyContact *string   `json:"emergency_contact"`
	MoveInDate       *string   `json:"move_in_date"`
}
