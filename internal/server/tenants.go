package server

import (
	"net/http"

	"rentdesk/pkg/types"
)

func (s *Service) handleListTenants(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin, types.UserRoleStaff) == nil {
		return
	}

	filter := types.TenantFilter{
		PropertyID: r.URL.Query().Get("property_id"),
		UnitID:     r.URL.Query().Get("unit_id"),
	}

	tenants, err := s.stores.Tenants.Tenants(r.Context(), filter)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	details := make([]*types.TenantDetail, 0, len(tenants))
	for _, tenant := range tenants {
		detail := &types.TenantDetail{
			ID:      tenant.UserID,
			Profile: tenant,
		}

		user, err := s.stores.Users.User(r.Context(), tenant.UserID)
		if err != nil && err != types.ErrUserNotFound {
			s.internalServerError(w, err)
			return
		}
		detail.UserInfo = user

		details = append(details, detail)
	}

	s.respondJSON(w, http.StatusOK, details)
}
