package server

import (
	"net/http"
	"testing"
	"time"

	"rentdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRentDueDate(t *testing.T) {
	cases := []struct {
		now  string
		want string
	}{
		{"2026-08-24", "2026-09-01"},
		{"2026-12-31", "2027-01-01"},
		{"2026-01-01", "2026-02-01"},
	}

	for _, tc := range cases {
		now, err := time.Parse("2006-01-02", tc.now)
		require.NoError(t, err)
		assert.Equal(t, tc.want, nextRentDueDate(now).Format("2006-01-02"), "now=%s", tc.now)
	}
}

func TestUserDashboard(t *testing.T) {
	env := newTestEnv()
	leaseDemoUnit(t, env)

	require.NoError(t, env.maintenance.Create(t.Context(), &types.MaintenanceRequest{
		TenantID: testTenantID, UnitID: "prop1_101", Title: "Leaking tap",
	}))
	require.NoError(t, env.payments.Create(t.Context(), &types.Payment{
		TenantID: testTenantID, Amount: 1200, Method: types.PaymentMethodStripe,
	}))
	require.NoError(t, env.notifications.Create(t.Context(), &types.Notification{
		UserID: testTenantID, Type: types.NotificationTypePush, Title: "hi", Message: "msg",
	}))

	// Dashboards are per-role; staff get a 403 here.
	rec := doRequest(t, env, http.MethodGet, "/api/v1/dashboard/user", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, env, http.MethodGet, "/api/v1/dashboard/user", tenantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dashboard := decodeBody[types.UserDashboard](t, rec)
	require.NotNil(t, dashboard.Profile)
	require.NotNil(t, dashboard.Lease)
	assert.Equal(t, 1200.0, dashboard.Lease.RentAmount)
	require.NotNil(t, dashboard.UpcomingRent)
	assert.Equal(t, 1200.0, dashboard.UpcomingRent.Amount)
	assert.Len(t, dashboard.MaintenanceRequests, 1)
	assert.Len(t, dashboard.Payments, 1)
	assert.Equal(t, 1, dashboard.UnreadNotifications)
}

func TestStaffDashboard(t *testing.T) {
	env := newTestEnv()

	staffID := testStaffID
	for _, status := range []types.MaintenanceStatus{
		types.MaintenanceStatusInProgress,
		types.MaintenanceStatusInProgress,
		types.MaintenanceStatusResolved,
	} {
		require.NoError(t, env.maintenance.Create(t.Context(), &types.MaintenanceRequest{
			TenantID:   testTenantID,
			UnitID:     "prop1_101",
			Title:      "task",
			Status:     status,
			AssignedTo: &staffID,
		}))
	}

	rec := doRequest(t, env, http.MethodGet, "/api/v1/dashboard/staff", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dashboard := decodeBody[types.StaffDashboard](t, rec)
	assert.Equal(t, 2, dashboard.AssignedTasks.TotalOpen)
	assert.Equal(t, 1, dashboard.AssignedTasks.TotalResolved)
	assert.Equal(t, 3, dashboard.Performance.TotalAssigned)
	assert.InDelta(t, 33.3, dashboard.Performance.CompletionRate, 0.1)
}

func TestAdminDashboardAggregation(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.properties.Create(t.Context(), &types.Property{
		ID: "prop1", Name: "Sunset", Address: "12 Harbour Rd", Type: "apartment", TotalUnits: 2,
	}))
	require.NoError(t, env.units.Create(t.Context(), &types.Unit{
		PropertyID: "prop1", UnitNumber: "101", Status: types.UnitStatusOccupied,
	}))
	require.NoError(t, env.units.Create(t.Context(), &types.Unit{
		PropertyID: "prop1", UnitNumber: "102",
	}))

	unitID := "prop1_101"
	require.NoError(t, env.tenants.Upsert(t.Context(), &types.Tenant{
		UserID: testTenantID, UnitID: &unitID, RentAmount: 1000,
	}))

	now := time.Now()
	require.NoError(t, env.payments.Create(t.Context(), &types.Payment{
		TenantID: testTenantID,
		Amount:   500,
		Method:   types.PaymentMethodStripe,
		Status:   types.PaymentStatusPaid,
		PaidDate: &now,
	}))

	rec := doRequest(t, env, http.MethodGet, "/api/v1/dashboard/admin", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, env, http.MethodGet, "/api/v1/dashboard/admin", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dashboard := decodeBody[types.AdminDashboard](t, rec)
	assert.Equal(t, 1, dashboard.Overview.TotalProperties)
	assert.Equal(t, 2, dashboard.Overview.TotalUnits)
	assert.Equal(t, 1, dashboard.Overview.OccupiedUnits)
	assert.InDelta(t, 50.0, dashboard.Overview.OccupancyRate, 0.01)
	assert.InDelta(t, 50.0, dashboard.Overview.VacancyRate, 0.01)
	assert.Equal(t, 500.0, dashboard.Overview.RentCollectedMonth)
	assert.InDelta(t, 50.0, dashboard.Overview.CollectionRate, 0.01)
	assert.Len(t, dashboard.RecentActivities, 1)

	assert.Equal(t, 500.0, dashboard.Financials.MonthlyRevenue)
	assert.Equal(t, 500.0, dashboard.Financials.NetOperatingIncome)
}

func TestRentDueReport(t *testing.T) {
	env := newTestEnv()

	unitID := "prop1_101"
	require.NoError(t, env.tenants.Upsert(t.Context(), &types.Tenant{
		UserID: testTenantID, UnitID: &unitID, RentAmount: 1000,
	}))

	past := time.Now().AddDate(0, 0, -10)
	require.NoError(t, env.payments.Create(t.Context(), &types.Payment{
		TenantID: testTenantID,
		Amount:   1000,
		Method:   types.PaymentMethodStripe,
		Status:   types.PaymentStatusPending,
		DueDate:  &past,
	}))
	require.NoError(t, env.payments.Create(t.Context(), &types.Payment{
		TenantID: testTenantID,
		Amount:   250,
		Method:   types.PaymentMethodCash,
		Status:   types.PaymentStatusOverdue,
	}))

	rec := doRequest(t, env, http.MethodGet, "/api/v1/reports/rent-due", tenantToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, env, http.MethodGet, "/api/v1/reports/rent-due", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	report := decodeBody[[]types.RentDueEntry](t, rec)
	require.Len(t, report, 1)
	assert.Equal(t, 1000.0, report[0].MonthlyRent)
	assert.Equal(t, 1250.0, report[0].OverdueAmount)
	assert.Len(t, report[0].PaymentHistory, 2)
}

func TestKPIReportIsAdminOnly(t *testing.T) {
	env := newTestEnv()

	rec := doRequest(t, env, http.MethodGet, "/api/v1/reports/kpi", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, env, http.MethodGet, "/api/v1/reports/kpi", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeBody[types.KPIStats](t, rec)
	assert.Equal(t, 0, stats.TotalProperties)
}
