package server

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"rentdesk/internal/gateway"
	"rentdesk/internal/notify"
	"rentdesk/internal/utils"
	"rentdesk/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
)

// staticVerifier resolves tokens from a fixed map.
type staticVerifier struct {
	tokens map[string]*Identity
}

func (v *staticVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	identity, ok := v.tokens[token]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}
	return identity, nil
}

type fakeCognito struct {
	signUpErr error
	authErr   error
}

func (c *fakeCognito) InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	if c.authErr != nil {
		return nil, c.authErr
	}
	return &cognitoidentityprovider.InitiateAuthOutput{
		AuthenticationResult: &ctypes.AuthenticationResultType{
			AccessToken: aws.String("fake-access-token"),
			ExpiresIn:   3600,
		},
	}, nil
}

func (c *fakeCognito) SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error) {
	if c.signUpErr != nil {
		return nil, c.signUpErr
	}
	return &cognitoidentityprovider.SignUpOutput{
		UserSub: aws.String("sub-" + aws.ToString(params.Username)),
	}, nil
}

// fakeObjects records uploads in memory.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.objects[key] = data
	f.mu.Unlock()
	return f.PublicURL(key), nil
}

func (f *fakeObjects) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	delete(f.objects, key)
	f.mu.Unlock()
	return nil
}

func (f *fakeObjects) PublicURL(key string) string {
	return "https://blobs.test/" + key
}

func (f *fakeObjects) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakeStripe struct {
	intents         map[string]*gateway.StripeIntent
	lastAmountCents int64
}

func (f *fakeStripe) CreateIntent(ctx context.Context, amountCents int64, currency, userID, description string) (*gateway.StripeIntent, error) {
	f.lastAmountCents = amountCents
	intent := &gateway.StripeIntent{
		ID:           fmt.Sprintf("pi_%d", len(f.intents)+1),
		ClientSecret: "secret",
		Status:       "requires_payment_method",
		Currency:     currency,
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakeStripe) RetrieveIntent(ctx context.Context, intentID string) (*gateway.StripeIntent, error) {
	intent, ok := f.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("no such intent")
	}
	return intent, nil
}

type fakePayPal struct {
	orders map[string]bool
}

func (f *fakePayPal) CreateOrder(ctx context.Context, amount float64, currency string) (string, error) {
	id := fmt.Sprintf("order_%d", len(f.orders)+1)
	f.orders[id] = false
	return id, nil
}

func (f *fakePayPal) CaptureOrder(ctx context.Context, orderID string) error {
	if _, ok := f.orders[orderID]; !ok {
		return fmt.Errorf("no such order")
	}
	f.orders[orderID] = true
	return nil
}

type fakeMpesa struct{}

func (f *fakeMpesa) RequestPayment(ctx context.Context, amount float64, phoneNumber, accountRef string) (string, error) {
	return "ws_CO_test", nil
}

// recordingMailer collects messages instead of sending them.
type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Email
}

func (m *recordingMailer) Send(to, subject, body string, isHTML bool) error {
	m.mu.Lock()
	m.sent = append(m.sent, notify.Email{To: to, Subject: subject, Body: body, IsHTML: isHTML})
	m.mu.Unlock()
	return nil
}

// In-memory store fakes.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*types.User
}

func (s *memUserStore) User(ctx context.Context, userID string) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *memUserStore) Users(ctx context.Context) ([]*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memUserStore) UsersByRole(ctx context.Context, role types.UserRole) ([]*types.User, error) {
	all, _ := s.Users(ctx)
	out := make([]*types.User, 0)
	for _, u := range all {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *memUserStore) Create(ctx context.Context, user *types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.Role == "" {
		user.Role = types.UserRoleTenant
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *memUserStore) Update(ctx context.Context, userID string, user *types.User) error {
	user.ID = userID
	return s.Create(ctx, user)
}

func (s *memUserStore) SetBalance(ctx context.Context, userID string, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return types.ErrUserNotFound
	}
	user.Balance = balance
	return nil
}

func (s *memUserStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return nil
}

type memPropertyStore struct {
	mu         sync.Mutex
	properties map[string]*types.Property
}

func (s *memPropertyStore) Property(ctx context.Context, propertyID string) (*types.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[propertyID]
	if !ok {
		return nil, types.ErrPropertyNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *memPropertyStore) Properties(ctx context.Context, filter types.PropertyFilter) ([]*types.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Property, 0)
	for _, p := range s.properties {
		if filter.City != "" && (p.City == nil || *p.City != filter.City) {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memPropertyStore) Create(ctx context.Context, property *types.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if property.ID == "" {
		property.ID = utils.NanoID()
	}
	property.CreatedAt = time.Now()
	property.UpdatedAt = property.CreatedAt
	copied := *property
	s.properties[property.ID] = &copied
	return nil
}

func (s *memPropertyStore) Update(ctx context.Context, propertyID string, property *types.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	property.ID = propertyID
	copied := *property
	s.properties[propertyID] = &copied
	return nil
}

func (s *memPropertyStore) Delete(ctx context.Context, propertyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.properties, propertyID)
	return nil
}

type memUnitStore struct {
	mu    sync.Mutex
	units map[string]*types.Unit
}

func (s *memUnitStore) Unit(ctx context.Context, unitID string) (*types.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[unitID]
	if !ok {
		return nil, types.ErrUnitNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memUnitStore) Units(ctx context.Context, filter types.UnitFilter) ([]*types.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Unit, 0)
	for _, u := range s.units {
		if filter.PropertyID != "" && u.PropertyID != filter.PropertyID {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memUnitStore) Create(ctx context.Context, unit *types.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	unit.ID = types.UnitID(unit.PropertyID, unit.UnitNumber)
	if unit.Status == "" {
		unit.Status = types.UnitStatusVacant
	}
	copied := *unit
	s.units[unit.ID] = &copied
	return nil
}

func (s *memUnitStore) SetStatus(ctx context.Context, unitID string, status types.UnitStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[unitID]
	if !ok {
		return types.ErrUnitNotFound
	}
	u.Status = status
	return nil
}

type memTenantStore struct {
	mu      sync.Mutex
	tenants map[string]*types.Tenant
}

func (s *memTenantStore) Tenant(ctx context.Context, userID string) (*types.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[userID]
	if !ok {
		return nil, types.ErrTenantNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *memTenantStore) Tenants(ctx context.Context, filter types.TenantFilter) ([]*types.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Tenant, 0)
	for _, t := range s.tenants {
		if filter.UnitID != "" && (t.UnitID == nil || *t.UnitID != filter.UnitID) {
			continue
		}
		if filter.PropertyID != "" &&
			(t.UnitID == nil || !strings.HasPrefix(*t.UnitID, filter.PropertyID+"_")) {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *memTenantStore) TenantByUnit(ctx context.Context, unitID string) (*types.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.UnitID != nil && *t.UnitID == unitID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, types.ErrTenantNotFound
}

func (s *memTenantStore) Upsert(ctx context.Context, tenant *types.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *tenant
	s.tenants[tenant.UserID] = &copied
	return nil
}

func (s *memTenantStore) SetLeaseDocument(ctx context.Context, userID, documentURL string, uploadedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[userID]
	if !ok {
		return types.ErrTenantNotFound
	}
	t.LeaseDocumentURL = &documentURL
	t.DocumentUploadDate = &uploadedAt
	return nil
}

type memMaintenanceStore struct {
	mu       sync.Mutex
	requests map[string]*types.MaintenanceRequest
	updates  []*types.MaintenanceUpdate
}

func (s *memMaintenanceStore) Request(ctx context.Context, requestID string) (*types.MaintenanceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, types.ErrRequestNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *memMaintenanceStore) Requests(ctx context.Context, filter types.MaintenanceFilter) ([]*types.MaintenanceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.MaintenanceRequest, 0)
	for _, r := range s.requests {
		if filter.TenantID != "" && r.TenantID != filter.TenantID {
			continue
		}
		if filter.AssignedTo != "" && (r.AssignedTo == nil || *r.AssignedTo != filter.AssignedTo) {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		copied := *r
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && uint64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memMaintenanceStore) Create(ctx context.Context, request *types.MaintenanceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if request.ID == "" {
		request.ID = utils.NanoID()
	}
	if request.Status == "" {
		request.Status = types.MaintenanceStatusSubmitted
	}
	if request.Urgency == "" {
		request.Urgency = types.UrgencyMedium
	}
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	copied := *request
	s.requests[request.ID] = &copied
	return nil
}

func (s *memMaintenanceStore) Update(ctx context.Context, requestID string, request *types.MaintenanceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	request.ID = requestID
	request.UpdatedAt = time.Now()
	copied := *request
	s.requests[requestID] = &copied
	return nil
}

func (s *memMaintenanceStore) Delete(ctx context.Context, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.requests, requestID)
	return nil
}

func (s *memMaintenanceStore) AppendUpdate(ctx context.Context, update *types.MaintenanceUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	update.ID = utils.NanoID()
	update.CreatedAt = time.Now()
	copied := *update
	s.updates = append(s.updates, &copied)
	return nil
}

func (s *memMaintenanceStore) UpdatesByRequest(ctx context.Context, requestID string) ([]*types.MaintenanceUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.MaintenanceUpdate, 0)
	for _, u := range s.updates {
		if u.RequestID == requestID {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memPaymentStore struct {
	mu       sync.Mutex
	payments map[string]*types.Payment
}

func (s *memPaymentStore) Payment(ctx context.Context, paymentID string) (*types.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok {
		return nil, types.ErrPaymentNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *memPaymentStore) PaymentByRef(ctx context.Context, gatewayRef string) (*types.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.GatewayRef != nil && *p.GatewayRef == gatewayRef {
			copied := *p
			return &copied, nil
		}
	}
	return nil, types.ErrPaymentNotFound
}

func (s *memPaymentStore) Payments(ctx context.Context, filter types.PaymentFilter) ([]*types.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Payment, 0)
	for _, p := range s.payments {
		if filter.TenantID != "" && p.TenantID != filter.TenantID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && uint64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memPaymentStore) Create(ctx context.Context, payment *types.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payment.ID == "" {
		payment.ID = utils.NanoID()
	}
	if payment.Currency == "" {
		payment.Currency = "usd"
	}
	if payment.Status == "" {
		payment.Status = types.PaymentStatusPending
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	copied := *payment
	s.payments[payment.ID] = &copied
	return nil
}

func (s *memPaymentStore) Update(ctx context.Context, paymentID string, payment *types.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment.ID = paymentID
	copied := *payment
	s.payments[paymentID] = &copied
	return nil
}

type memNotificationStore struct {
	mu            sync.Mutex
	notifications []*types.Notification
}

func (s *memNotificationStore) Create(ctx context.Context, notification *types.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification.ID = utils.NanoID()
	notification.CreatedAt = time.Now()
	copied := *notification
	s.notifications = append(s.notifications, &copied)
	return nil
}

func (s *memNotificationStore) ByUser(ctx context.Context, userID string, limit uint64) ([]*types.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	if limit > 0 && uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memNotificationStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *memNotificationStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return types.ErrNotificationNotFound
}

func (s *memNotificationStore) forUser(userID string) []*types.Notification {
	out, _ := s.ByUser(context.Background(), userID, 0)
	return out
}

// testEnv bundles the service under test with its fakes.
type testEnv struct {
	service *Service

	users         *memUserStore
	properties    *memPropertyStore
	units         *memUnitStore
	tenants       *memTenantStore
	maintenance   *memMaintenanceStore
	payments      *memPaymentStore
	notifications *memNotificationStore

	objects *fakeObjects
	mailer  *recordingMailer
	stripe  *fakeStripe
	cognito *fakeCognito
}

const (
	testAdminID  = "admin-1"
	testStaffID  = "staff-1"
	testTenantID = "tenant-1"

	adminToken  = "admin-token"
	staffToken  = "staff-token"
	tenantToken = "tenant-token"
)

func newTestEnv() *testEnv {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &testEnv{
		users:         &memUserStore{users: map[string]*types.User{}},
		properties:    &memPropertyStore{properties: map[string]*types.Property{}},
		units:         &memUnitStore{units: map[string]*types.Unit{}},
		tenants:       &memTenantStore{tenants: map[string]*types.Tenant{}},
		maintenance:   &memMaintenanceStore{requests: map[string]*types.MaintenanceRequest{}},
		payments:      &memPaymentStore{payments: map[string]*types.Payment{}},
		notifications: &memNotificationStore{},
		objects:       newFakeObjects(),
		mailer:        &recordingMailer{},
		stripe:        &fakeStripe{intents: map[string]*gateway.StripeIntent{}},
		cognito:       &fakeCognito{},
	}

	for _, user := range []*types.User{
		{ID: testAdminID, Email: utils.StringPtr("admin@test"), Role: types.UserRoleAdmin},
		{ID: testStaffID, Email: utils.StringPtr("staff@test"), Role: types.UserRoleStaff},
		{ID: testTenantID, Email: utils.StringPtr("tenant@test"), Role: types.UserRoleTenant, Balance: 2000},
	} {
		env.users.users[user.ID] = user
	}

	verifier := &staticVerifier{tokens: map[string]*Identity{
		adminToken:  {Subject: testAdminID},
		staffToken:  {Subject: testStaffID},
		tenantToken: {Subject: testTenantID},
	}}

	env.service = New(
		&types.Config{ServerPort: 0, ReadTimeoutSec: 1, WriteTimeoutSec: 1, Environment: "test"},
		logger,
		Stores{
			Users:         env.users,
			Properties:    env.properties,
			Units:         env.units,
			Tenants:       env.tenants,
			Maintenance:   env.maintenance,
			Payments:      env.payments,
			Notifications: env.notifications,
		},
		verifier,
		env.cognito,
		env.objects,
		env.stripe,
		&fakePayPal{orders: map[string]bool{}},
		&fakeMpesa{},
		notify.NewDispatcher(env.mailer, 1, logger),
	)

	return env
}
