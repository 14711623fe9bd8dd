package server

import (
	"net/http"
	"time"

	"rentdesk/pkg/types"
)

func (s *Service) handleRentDueReport(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin, types.UserRoleStaff) == nil {
		return
	}

	tenants, err := s.stores.Tenants.Tenants(r.Context(), types.TenantFilter{})
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	today := time.Now()
	report := make([]*types.RentDueEntry, 0, len(tenants))

	for _, tenant := range tenants {
		payments, err := s.stores.Payments.Payments(r.Context(), types.PaymentFilter{
			TenantID: tenant.UserID,
		})
		if err != nil {
			s.internalServerError(w, err)
			return
		}

		var overdue float64
		for _, payment := range payments {
			switch {
			case payment.Status == types.PaymentStatusOverdue:
				overdue += payment.Amount
			case payment.Status == types.PaymentStatusPending &&
				payment.DueDate != nil && payment.DueDate.Before(today):
				overdue += payment.Amount
			}
		}

		report = append(report, &types.RentDueEntry{
			TenantID:       tenant.UserID,
			TenantName:     tenant.FullName,
			UnitID:         tenant.UnitID,
			MonthlyRent:    tenant.RentAmount,
			OverdueAmount:  overdue,
			PaymentHistory: payments,
		})
	}

	s.respondJSON(w, http.StatusOK, report)
}

func (s *Service) handleKPIReport(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin) == nil {
		return
	}

	_, financials, err := s.portfolioStats(r)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, financials)
}
