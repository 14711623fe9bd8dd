package types

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodMpesa  PaymentMethod = "mpesa"
	PaymentMethodCash   PaymentMethod = "cash"
)

type Payment struct {
	ID          string        `db:"id" json:"id"`
	TenantID    string        `db:"tenant_id" json:"tenant_id"`
	Amount      float64       `db:"amount" json:"amount"`
	Currency    string        `db:"currency" json:"currency"`
	Method      PaymentMethod `db:"method" json:"method"`
	Status      PaymentStatus `db:"status" json:"status"`
	Description *string       `db:"description" json:"description"`
	DueDate     *time.Time    `db:"due_date" json:"due_date"`
	PaidDate    *time.Time    `db:"paid_date" json:"paid_date"`
	GatewayRef  *string       `db:"gateway_ref" json:"gateway_ref"`
	PhoneNumber *string       `db:"phone_number" json:"phone_number"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

type PaymentFilter struct {
	TenantID string        `form:"tenant_id"`
	Status   PaymentStatus `form:"status"`
	Limit    uint64        `form:"-"`
}

// RentDueEntry is one tenant's row in the rent-due report.
type RentDueEntry struct {
	TenantID       string     `json:"tenant_id"`
	TenantName     *string    `json:"tenant_name"`
	UnitID         *string    `json:"unit_id"`
	MonthlyRent    float64    `json:"monthly_rent"`
	OverdueAmount  float64    `json:"overdue_amount"`
	PaymentHistory []*Payment `json:"payment_history"`
}

type KPIStats struct {
	TotalProperties    int     `json:"total_properties"`
	TotalUnits         int     `json:"total_units"`
	OccupancyRate      float64 `json:"occupancy_rate"`
	VacancyRate        float64 `json:"vacancy_rate"`
	MonthlyRevenue     float64 `json:"monthly_revenue"`
	MaintenanceCosts   float64 `json:"maintenance_costs"`
	NetOperatingIncome float64 `json:"net_operating_income"`
}
