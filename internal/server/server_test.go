package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rentdesk/internal/utils"
	"rentdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, env *testEnv, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	env.service.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv()

	rec := doRequest(t, env, http.MethodGet, "/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, env, http.MethodGet, "/profile", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.NotEmpty(t, body["error"])

	rec = doRequest(t, env, http.MethodGet, "/profile", tenantToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv()

	rec := doRequest(t, env, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv()

	rec := doRequest(t, env, http.MethodPost, "/login", "", map[string]string{
		"email":    "tenant@test.example",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "fake-access-token", body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])

	env.cognito.authErr = fmt.Errorf("NotAuthorizedException")
	rec = doRequest(t, env, http.MethodPost, "/login", "", map[string]string{
		"email":    "tenant@test.example",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterCreatesUser(t *testing.T) {
	env := newTestEnv()

	rec := doRequest(t, env, http.MethodPost, "/register", "", map[string]string{
		"email":    "new@test.example",
		"password": "supersecret",
		"name":     "New Tenant",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	userID := body["user_id"]
	require.NotEmpty(t, userID)

	user, err := env.users.User(t.Context(), userID)
	require.NoError(t, err)
	assert.Equal(t, types.UserRoleTenant, user.Role)
	assert.Equal(t, "new@test.example", *user.Email)
}

func TestPropertyLifecycle(t *testing.T) {
	env := newTestEnv()

	input := map[string]any{
		"name":        "Sunset Gardens",
		"address":     "12 Harbour Road",
		"type":        "apartment",
		"total_units": 4,
	}

	// Tenants cannot create properties.
	rec := doRequest(t, env, http.MethodPost, "/api/v1/properties", tenantToken, input)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, env, http.MethodPost, "/api/v1/properties", adminToken, input)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeBody[types.Property](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, types.PropertyStatusActive, created.Status)
	assert.Equal(t, 4, created.VacantUnits)

	rec = doRequest(t, env, http.MethodGet, "/api/v1/properties", tenantToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeBody[[]types.Property](t, rec)
	require.Len(t, listed, 1)

	// Missing required fields are rejected.
	rec = doRequest(t, env, http.MethodPost, "/api/v1/properties", adminToken, map[string]any{
		"name": "No Address",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Add a unit and lease it; the property can no longer be deleted.
	rec = doRequest(t, env, http.MethodPost, "/api/v1/properties/"+created.ID+"/units", adminToken, map[string]any{
		"unit_number": "101",
		"rent_amount": 1200.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	unit := decodeBody[types.Unit](t, rec)
	assert.Equal(t, types.UnitStatusVacant, unit.Status)
	assert.Equal(t, types.UnitID(created.ID, "101"), unit.ID)

	require.NoError(t, env.tenants.Upsert(t.Context(), &types.Tenant{
		UserID: testTenantID,
		UnitID: &unit.ID,
	}))

	rec = doRequest(t, env, http.MethodDelete, "/api/v1/properties/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, err := env.properties.Property(t.Context(), created.ID)
	assert.NoError(t, err)
}

func TestUpdateUserRoleIsAdminOnly(t *testing.T) {
	env := newTestEnv()

	rec := doRequest(t, env, http.MethodPut, "/api/users/"+testTenantID, tenantToken, map[string]string{
		"role": "admin",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, env, http.MethodPut, "/api/users/"+testTenantID, adminToken, map[string]string{
		"role": "staff",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := env.users.User(t.Context(), testTenantID)
	require.NoError(t, err)
	assert.Equal(t, types.UserRoleStaff, user.Role)
}

func TestTenantCannotReadOtherUsers(t *testing.T) {
	env := newTestEnv()

	rec := doRequest(t, env, http.MethodGet, "/api/users/"+testStaffID, tenantToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, env, http.MethodGet, "/api/users/"+testTenantID, tenantToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListUsersIsAdminOnly(t *testing.T) {
	env := newTestEnv()

	rec := doRequest(t, env, http.MethodGet, "/api/users", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, env, http.MethodGet, "/api/users?role=tenant", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	users := decodeBody[[]types.User](t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, testTenantID, users[0].ID)
}

func TestTenantListRequiresStaff(t *testing.T) {
	env := newTestEnv()

	unitID := "prop1_101"
	require.NoError(t, env.tenants.Upsert(t.Context(), &types.Tenant{
		UserID:   testTenantID,
		FullName: utils.StringPtr("Tess Moreau"),
		UnitID:   &unitID,
	}))

	rec := doRequest(t, env, http.MethodGet, "/api/v1/tenants", tenantToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, env, http.MethodGet, "/api/v1/tenants", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	details := decodeBody[[]types.TenantDetail](t, rec)
	require.Len(t, details, 1)
	assert.Equal(t, testTenantID, details[0].ID)
	require.NotNil(t, details[0].UserInfo)
	assert.Equal(t, types.UserRoleTenant, details[0].UserInfo.Role)
}
