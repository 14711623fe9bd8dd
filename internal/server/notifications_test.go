package server

import (
	"net/http"
	"testing"

	"rentdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushNotificationRoundTrip(t *testing.T) {
	env := newTestEnv()

	// Tenants cannot push.
	rec := doRequest(t, env, http.MethodPost, "/api/notifications/push", tenantToken, map[string]string{
		"user_id": testTenantID,
		"title":   "hi",
		"message": "there",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, env, http.MethodPost, "/api/notifications/push", adminToken, map[string]string{
		"user_id": testTenantID,
		"title":   "Rent reminder",
		"message": "Rent is due on the 1st",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeBody[types.Notification](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, types.NotificationTypePush, created.Type)
	assert.False(t, created.Read)

	rec = doRequest(t, env, http.MethodGet, "/api/notifications/user/"+testTenantID, tenantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decodeBody[struct {
		Notifications []types.Notification `json:"notifications"`
		UnreadCount   int                  `json:"unread_count"`
	}](t, rec)
	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, 1, feed.UnreadCount)

	rec = doRequest(t, env, http.MethodPost, "/api/notifications/user/"+testTenantID+"/read/"+created.ID, tenantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	unread, err := env.notifications.UnreadCount(t.Context(), testTenantID)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	rec = doRequest(t, env, http.MethodPost, "/api/notifications/user/"+testTenantID+"/read/nope", tenantToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationFeedIsPrivate(t *testing.T) {
	env := newTestEnv()

	rec := doRequest(t, env, http.MethodGet, "/api/notifications/user/"+testStaffID, tenantToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Staff may read another user's feed.
	rec = doRequest(t, env, http.MethodGet, "/api/notifications/user/"+testTenantID, staffToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmailEndpointSendsSynchronously(t *testing.T) {
	env := newTestEnv()

	rec := doRequest(t, env, http.MethodPost, "/api/notifications/email", staffToken, map[string]any{
		"to_email": "tenant@test.example",
		"subject":  "Inspection",
		"message":  "<p>Thursday 10am</p>",
		"is_html":  true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "tenant@test.example", env.mailer.sent[0].To)
	assert.Equal(t, "Inspection", env.mailer.sent[0].Subject)
	assert.True(t, env.mailer.sent[0].IsHTML)

	// Missing fields are rejected before any send.
	rec = doRequest(t, env, http.MethodPost, "/api/notifications/email", staffToken, map[string]string{
		"to_email": "tenant@test.example",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, env.mailer.sent, 1)
}
