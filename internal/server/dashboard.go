package server

import (
	"net/http"
	"sort"
	"time"

	"rentdesk/pkg/types"
)

// nextRentDueDate returns the first day of the month after now.
func nextRentDueDate(now time.Time) time.Time {
	year, month, _ := now.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
}

func (s *Service) handleUserDashboard(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, types.UserRoleTenant)
	if caller == nil {
		return
	}

	dashboard := &types.UserDashboard{
		MaintenanceRequests: []*types.MaintenanceRequest{},
		Payments:            []*types.Payment{},
	}

	profile, err := s.stores.Tenants.Tenant(r.Context(), caller.ID)
	if err != nil && err != types.ErrTenantNotFound {
		s.internalServerError(w, err)
		return
	}
	dashboard.Profile = profile

	if profile != nil {
		dashboard.Lease = &types.LeaseSummary{
			UnitID:             profile.UnitID,
			RentAmount:         profile.RentAmount,
			LeaseStart:         profile.LeaseStart,
			LeaseEnd:           profile.LeaseEnd,
			LeaseDocumentURL:   profile.LeaseDocumentURL,
			DocumentUploadDate: profile.DocumentUploadDate,
		}

		if profile.RentAmount > 0 {
			now := time.Now()
			due := nextRentDueDate(now)
			dashboard.UpcomingRent = &types.UpcomingRent{
				Amount:       profile.RentAmount,
				DueDate:      due,
				DaysUntilDue: int(due.Sub(now).Hours() / 24),
			}
		}
	}

	requests, err := s.stores.Maintenance.Requests(r.Context(), types.MaintenanceFilter{
		TenantID: caller.ID,
		Limit:    5,
	})
	if err != nil {
		s.internalServerError(w, err)
		return
	}
	dashboard.MaintenanceRequests = requests

	payments, err := s.stores.Payments.Payments(r.Context(), types.PaymentFilter{
		TenantID: caller.ID,
		Limit:    3,
	})
	if err != nil {
		s.internalServerError(w, err)
		return
	}
	dashboard.Payments = payments

	unread, err := s.stores.Notifications.UnreadCount(r.Context(), caller.ID)
	if err != nil {
		s.internalServerError(w, err)
		return
	}
	dashboard.UnreadNotifications = unread

	s.respondJSON(w, http.StatusOK, dashboard)
}

func (s *Service) handleStaffDashboard(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, types.UserRoleStaff, types.UserRoleAdmin)
	if caller == nil {
		return
	}

	assigned, err := s.stores.Maintenance.Requests(r.Context(), types.MaintenanceFilter{
		AssignedTo: caller.ID,
	})
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	dashboard := &types.StaffDashboard{
		AssignedTasks: types.AssignedTasks{
			Open:     []*types.MaintenanceRequest{},
			Resolved: []*types.MaintenanceRequest{},
		},
		RecentActivity: []*types.MaintenanceRequest{},
	}

	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for _, request := range assigned {
		if request.Status.Terminal() {
			dashboard.AssignedTasks.Resolved = append(dashboard.AssignedTasks.Resolved, request)
			if request.UpdatedAt.After(monthStart) {
				dashboard.Performance.TasksCompletedMonth++
			}
		} else {
			dashboard.AssignedTasks.Open = append(dashboard.AssignedTasks.Open, request)
		}

		if request.UpdatedAt.After(weekAgo) {
			dashboard.RecentActivity = append(dashboard.RecentActivity, request)
		}
	}

	dashboard.AssignedTasks.TotalOpen = len(dashboard.AssignedTasks.Open)
	dashboard.AssignedTasks.TotalResolved = len(dashboard.AssignedTasks.Resolved)
	dashboard.Performance.TotalAssigned = len(assigned)
	if len(assigned) > 0 {
		dashboard.Performance.CompletionRate =
			float64(dashboard.AssignedTasks.TotalResolved) / float64(len(assigned)) * 100
	}

	s.respondJSON(w, http.StatusOK, dashboard)
}

func (s *Service) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin) == nil {
		return
	}

	overview, financials, err := s.portfolioStats(r)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	activities, err := s.recentActivities(r, 10)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, &types.AdminDashboard{
		Overview:         *overview,
		RecentActivities: activities,
		Financials:       *financials,
	})
}

// portfolioStats aggregates the occupancy and financial numbers shared
// by the admin dashboard and the KPI report.
func (s *Service) portfolioStats(r *http.Request) (*types.AdminOverview, *types.KPIStats, error) {
	ctx := r.Context()

	properties, err := s.stores.Properties.Properties(ctx, types.PropertyFilter{})
	if err != nil {
		return nil, nil, err
	}

	units, err := s.stores.Units.Units(ctx, types.UnitFilter{})
	if err != nil {
		return nil, nil, err
	}

	tenants, err := s.stores.Tenants.Tenants(ctx, types.TenantFilter{})
	if err != nil {
		return nil, nil, err
	}

	payments, err := s.stores.Payments.Payments(ctx, types.PaymentFilter{Status: types.PaymentStatusPaid})
	if err != nil {
		return nil, nil, err
	}

	requests, err := s.stores.Maintenance.Requests(ctx, types.MaintenanceFilter{})
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	overview := &types.AdminOverview{
		TotalProperties: len(properties),
		TotalUnits:      len(units),
	}

	for _, unit := range units {
		if unit.Status == types.UnitStatusOccupied {
			overview.OccupiedUnits++
		}
	}
	if overview.TotalUnits > 0 {
		overview.OccupancyRate = float64(overview.OccupiedUnits) / float64(overview.TotalUnits) * 100
		overview.VacancyRate = 100 - overview.OccupancyRate
	}

	for _, tenant := range tenants {
		overview.TotalMonthlyRent += tenant.RentAmount
	}

	for _, payment := range payments {
		if payment.PaidDate != nil && payment.PaidDate.After(monthStart) {
			overview.RentCollectedMonth += payment.Amount
		}
	}
	if overview.TotalMonthlyRent > 0 {
		overview.CollectionRate = overview.RentCollectedMonth / overview.TotalMonthlyRent * 100
	}

	for _, request := range requests {
		if request.Status.Terminal() {
			if request.UpdatedAt.After(monthStart) {
				overview.ResolvedThisMonth++
			}
		} else {
			overview.OpenMaintenanceCount++
		}
	}

	// The ledger only records income; expenses are not tracked, so
	// maintenance costs stay zero and NOI equals revenue.
	financials := &types.KPIStats{
		TotalProperties:    overview.TotalProperties,
		TotalUnits:         overview.TotalUnits,
		OccupancyRate:      overview.OccupancyRate,
		VacancyRate:        overview.VacancyRate,
		MonthlyRevenue:     overview.RentCollectedMonth,
		NetOperatingIncome: overview.RentCollectedMonth,
	}

	return overview, financials, nil
}

func (s *Service) recentActivities(r *http.Request, limit int) ([]types.RecentActivity, error) {
	ctx := r.Context()

	payments, err := s.stores.Payments.Payments(ctx, types.PaymentFilter{Limit: uint64(limit)})
	if err != nil {
		return nil, err
	}

	requests, err := s.stores.Maintenance.Requests(ctx, types.MaintenanceFilter{Limit: uint64(limit)})
	if err != nil {
		return nil, err
	}

	activities := make([]types.RecentActivity, 0, len(payments)+len(requests))
	for _, payment := range payments {
		activities = append(activities, types.RecentActivity{
			Type:      "payment",
			ID:        payment.ID,
			Data:      payment,
			Timestamp: payment.CreatedAt,
		})
	}
	for _, request := range requests {
		activities = append(activities, types.RecentActivity{
			Type:      "maintenance",
			ID:        request.ID,
			Data:      request,
			Timestamp: request.CreatedAt,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})

	if len(activities) > limit {
		activities = activities[:limit]
	}

	return activities, nil
}
