package server

import (
	"encoding/json"
	"net/http"

	"rentdesk/internal/notify"
	"rentdesk/pkg/types"
)

type emailInput struct {
	To      string `json:"to_email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"message" validate:"required"`
	IsHTML  bool   `json:"is_html"`
}

func (s *Service) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin, types.UserRoleStaff) == nil {
		return
	}

	var in emailInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "to_email, subject and message are required")
		return
	}

	// Delivered synchronously so the caller learns the outcome.
	err := s.dispatcher.SendEmail(notify.Email{
		To:      in.To,
		Subject: in.Subject,
		Body:    in.Body,
		IsHTML:  in.IsHTML,
	})
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "email sent"})
}

type pushInput struct {
	UserID   string  `json:"user_id" validate:"required"`
	Title    string  `json:"title" validate:"required"`
	Message  string  `json:"message" validate:"required"`
	DeepLink *string `json:"deep_link"`
}

func (s *Service) handleSendPush(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin, types.UserRoleStaff) == nil {
		return
	}

	var in pushInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "user_id, title and message are required")
		return
	}

	if _, err := s.stores.Users.User(r.Context(), in.UserID); err != nil {
		if err == types.ErrUserNotFound {
			s.respondError(w, http.StatusNotFound, "user not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	notification := &types.Notification{
		UserID:   in.UserID,
		Type:     types.NotificationTypePush,
		Title:    in.Title,
		Message:  in.Message,
		DeepLink: in.DeepLink,
	}

	if err := s.stores.Notifications.Create(r.Context(), notification); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, notification)
}

func (s *Service) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	userID := r.PathValue("userID")

	if caller.Role == types.UserRoleTenant && caller.ID != userID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	notifications, err := s.stores.Notifications.ByUser(r.Context(), userID, 20)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	unread, err := s.stores.Notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func (s *Service) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	userID := r.PathValue("userID")
	notificationID := r.PathValue("notificationID")

	if caller.Role == types.UserRoleTenant && caller.ID != userID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	if err := s.stores.Notifications.MarkRead(r.Context(), userID, notificationID); err != nil {
		if err == types.ErrNotificationNotFound {
			s.respondError(w, http.StatusNotFound, "notification not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "notification marked read"})
}
