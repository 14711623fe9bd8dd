package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"rentdesk/internal/notify"
	"rentdesk/pkg/types"
)

func (s *Service) handleCreateMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	caller := s.requireRole(w, r, types.UserRoleTenant)
	if caller == nil {
		return
	}

	var in types.MaintenanceCreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	profile, err := s.stores.Tenants.Tenant(r.Context(), caller.ID)
	if err != nil {
		if err == types.ErrTenantNotFound {
			s.respondError(w, http.StatusBadRequest, "no unit assigned to tenant")
			return
		}
		s.internalServerError(w, err)
		return
	}
	if profile.UnitID == nil || *profile.UnitID == "" {
		s.respondError(w, http.StatusBadRequest, "no unit assigned to tenant")
		return
	}

	request := &types.MaintenanceRequest{
		TenantID:    caller.ID,
		UnitID:      *profile.UnitID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Urgency:     in.Urgency,
	}

	if err := s.stores.Maintenance.Create(r.Context(), request); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, request)
}

func (s *Service) handleListMaintenanceRequests(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())

	var filter types.MaintenanceFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		s.respondError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	// Tenants see their own requests; staff and admins see everything.
	if caller.Role == types.UserRoleTenant {
		filter.TenantID = caller.ID
	}

	requests, err := s.stores.Maintenance.Requests(r.Context(), filter)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, requests)
}

func (s *Service) handleGetMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	requestID := r.PathValue("id")

	request, err := s.stores.Maintenance.Request(r.Context(), requestID)
	if err != nil {
		if err == types.ErrRequestNotFound {
			s.respondError(w, http.StatusNotFound, "maintenance request not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	if caller.Role == types.UserRoleTenant && request.TenantID != caller.ID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	updates, err := s.stores.Maintenance.UpdatesByRequest(r.Context(), requestID)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"request": request,
		"updates": updates,
	})
}

func (s *Service) handleUpdateMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	requestID := r.PathValue("id")

	var in types.MaintenanceUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := s.stores.Maintenance.Request(r.Context(), requestID)
	if err != nil {
		if err == types.ErrRequestNotFound {
			s.respondError(w, http.StatusNotFound, "maintenance request not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	if caller.Role == types.UserRoleTenant {
		if request.TenantID != caller.ID {
			s.respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		if in.Status != nil {
			s.respondError(w, http.StatusForbidden, "only staff can change request status")
			return
		}
	}

	statusChanged := false
	if in.Status != nil {
		if !in.Status.Valid() {
			s.respondError(w, http.StatusBadRequest, "invalid status")
			return
		}
		if !request.Status.CanTransitionTo(*in.Status) {
			s.respondError(w, http.StatusBadRequest,
				fmt.Sprintf("cannot move request from %s back to %s", request.Status, *in.Status))
			return
		}
		statusChanged = request.Status != *in.Status
		request.Status = *in.Status
	}

	if in.Title != nil {
		request.Title = *in.Title
	}
	if in.Description != nil {
		request.Description = in.Description
	}
	if in.Category != nil {
		request.Category = in.Category
	}
	if in.Urgency != nil {
		request.Urgency = *in.Urgency
	}

	if err := s.stores.Maintenance.Update(r.Context(), requestID, request); err != nil {
		s.internalServerError(w, err)
		return
	}

	if in.Notes != nil && *in.Notes != "" {
		update := &types.MaintenanceUpdate{
			RequestID: requestID,
			Message:   *in.Notes,
			PostedBy:  caller.ID,
		}
		if err := s.stores.Maintenance.AppendUpdate(r.Context(), update); err != nil {
			s.internalServerError(w, err)
			return
		}
	}

	// Closing out a request notifies the tenant who filed it.
	if statusChanged && request.Status.Terminal() {
		if err := s.notifyMaintenanceResolved(r, request); err != nil {
			s.internalServerError(w, err)
			return
		}
	}

	s.respondJSON(w, http.StatusOK, request)
}

func (s *Service) handleAssignMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin, types.UserRoleStaff) == nil {
		return
	}

	requestID := r.PathValue("id")

	var in types.MaintenanceAssignInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "staff_id is required")
		return
	}

	request, err := s.stores.Maintenance.Request(r.Context(), requestID)
	if err != nil {
		if err == types.ErrRequestNotFound {
			s.respondError(w, http.StatusNotFound, "maintenance request not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	staff, err := s.stores.Users.User(r.Context(), in.StaffID)
	if err != nil {
		if err == types.ErrUserNotFound {
			s.respondError(w, http.StatusNotFound, "staff member not found")
			return
		}
		s.internalServerError(w, err)
		return
	}
	if staff.Role != types.UserRoleStaff {
		s.respondError(w, http.StatusNotFound, "staff member not found")
		return
	}

	if !request.Status.CanTransitionTo(types.MaintenanceStatusInProgress) {
		s.respondError(w, http.StatusBadRequest, "request is already resolved or closed")
		return
	}

	request.AssignedTo = &in.StaffID
	request.Status = types.MaintenanceStatusInProgress
	if in.Priority != nil {
		request.Priority = in.Priority
	}

	if err := s.stores.Maintenance.Update(r.Context(), requestID, request); err != nil {
		s.internalServerError(w, err)
		return
	}

	update := &types.MaintenanceUpdate{
		RequestID: requestID,
		Message:   fmt.Sprintf("assigned to %s", in.StaffID),
		PostedBy:  currentUser(r.Context()).ID,
	}
	if err := s.stores.Maintenance.AppendUpdate(r.Context(), update); err != nil {
		s.internalServerError(w, err)
		return
	}

	deepLink := fmt.Sprintf("/api/v1/maintenance/requests/%s", request.ID)
	notification := &types.Notification{
		UserID:   in.StaffID,
		Type:     types.NotificationTypeTaskAssignment,
		Title:    "New Task Assignment",
		Message:  fmt.Sprintf("You have been assigned to: %s", request.Title),
		DeepLink: &deepLink,
	}
	if err := s.stores.Notifications.Create(r.Context(), notification); err != nil {
		s.internalServerError(w, err)
		return
	}

	if staff.Email != nil {
		s.dispatcher.EnqueueEmail(notify.Email{
			To:      *staff.Email,
			Subject: "New Task Assignment",
			Body:    fmt.Sprintf("You have been assigned to maintenance request %q.", request.Title),
		})
	}

	s.respondJSON(w, http.StatusOK, request)
}

func (s *Service) handleDeleteMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin) == nil {
		return
	}

	requestID := r.PathValue("id")

	if _, err := s.stores.Maintenance.Request(r.Context(), requestID); err != nil {
		if err == types.ErrRequestNotFound {
			s.respondError(w, http.StatusNotFound, "maintenance request not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	if err := s.stores.Maintenance.Delete(r.Context(), requestID); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "maintenance request deleted"})
}

func (s *Service) notifyMaintenanceResolved(r *http.Request, request *types.MaintenanceRequest) error {
	deepLink := fmt.Sprintf("/api/v1/maintenance/requests/%s", request.ID)
	notification := &types.Notification{
		UserID:   request.TenantID,
		Type:     types.NotificationTypeMaintenanceUpdate,
		Title:    "Maintenance Request Update",
		Message:  fmt.Sprintf("Your request %q is now %s", request.Title, request.Status),
		DeepLink: &deepLink,
	}
	if err := s.stores.Notifications.Create(r.Context(), notification); err != nil {
		return err
	}

	tenant, err := s.stores.Users.User(r.Context(), request.TenantID)
	if err != nil {
		// The notification row is already written; log and move on.
		s.logger.WithError(err).WithField("tenant_id", request.TenantID).
			Warn("could not load tenant for resolution email")
		return nil
	}

	if tenant.Email != nil {
		s.dispatcher.EnqueueEmail(notify.Email{
			To:      *tenant.Email,
			Subject: "Maintenance Request Update",
			Body:    fmt.Sprintf("Your maintenance request %q is now %s.", request.Title, request.Status),
		})
	}

	return nil
}
