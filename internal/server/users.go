package server

import (
	"encoding/json"
	"net/http"

	"rentdesk/pkg/types"
)

func (s *Service) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())

	profile, err := s.stores.Tenants.Tenant(r.Context(), user.ID)
	if err != nil && err != types.ErrTenantNotFound {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"user":           user,
		"tenant_profile": profile,
	})
}

func (s *Service) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin) == nil {
		return
	}

	role := types.UserRole(r.URL.Query().Get("role"))

	var (
		users []*types.User
		err   error
	)
	if role != "" {
		if !role.Valid() {
			s.respondError(w, http.StatusBadRequest, "invalid role filter")
			return
		}
		users, err = s.stores.Users.UsersByRole(r.Context(), role)
	} else {
		users, err = s.stores.Users.Users(r.Context())
	}
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, users)
}

func (s *Service) handleGetUser(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	userID := r.PathValue("id")

	// Tenants may only read their own record.
	if caller.Role == types.UserRoleTenant && caller.ID != userID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	user, err := s.stores.Users.User(r.Context(), userID)
	if err != nil {
		if err == types.ErrUserNotFound {
			s.respondError(w, http.StatusNotFound, "user not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}

func (s *Service) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	userID := r.PathValue("id")

	if caller.Role != types.UserRoleAdmin && caller.ID != userID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	var in types.UserUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Role changes are an admin operation.
	if in.Role != nil {
		if caller.Role != types.UserRoleAdmin {
			s.respondError(w, http.StatusForbidden, "only admins can change roles")
			return
		}
		if !in.Role.Valid() {
			s.respondError(w, http.StatusBadRequest, "invalid role")
			return
		}
	}

	user, err := s.stores.Users.User(r.Context(), userID)
	if err != nil {
		if err == types.ErrUserNotFound {
			s.respondError(w, http.StatusNotFound, "user not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	if in.Name != nil {
		user.Name = in.Name
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Apartment != nil {
		user.Apartment = in.Apartment
	}
	if in.HouseNumber != nil {
		user.HouseNumber = in.HouseNumber
	}
	if in.EmergencyContact != nil {
		user.EmergencyContact = in.EmergencyContact
	}
	if in.MoveInDate != nil {
		user.MoveInDate = in.MoveInDate
	}

	if err := s.stores.Users.Update(r.Context(), userID, user); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}

func (s *Service) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin) == nil {
		return
	}

	userID := r.PathValue("id")

	if _, err := s.stores.Users.User(r.Context(), userID); err != nil {
		if err == types.ErrUserNotFound {
			s.respondError(w, http.StatusNotFound, "user not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	if err := s.stores.Users.Delete(r.Context(), userID); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
