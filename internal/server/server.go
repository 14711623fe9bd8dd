package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rentdesk/internal/gateway"
	"rentdesk/internal/notify"
	"rentdesk/internal/storage"
	"rentdesk/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

// UserStore is the persistence surface for user records.
type UserStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	Users(ctx context.Context) ([]*types.User, error)
	UsersByRole(ctx context.Context, role types.UserRole) ([]*types.User, error)
	Create(ctx context.Context, user *types.User) error
	Update(ctx context.Context, userID string, user *types.User) error
	SetBalance(ctx context.Context, userID string, balance float64) error
	Delete(ctx context.Context, userID string) error
}

type PropertyStore interface {
	Property(ctx context.Context, propertyID string) (*types.Property, error)
	Properties(ctx context.Context, filter types.PropertyFilter) ([]*types.Property, error)
	Create(ctx context.Context, property *types.Property) error
	Update(ctx context.Context, propertyID string, property *types.Property) error
	Delete(ctx context.Context, propertyID string) error
}

type UnitStore interface {
	Unit(ctx context.Context, unitID string) (*types.Unit, error)
	Units(ctx context.Context, filter types.UnitFilter) ([]*types.Unit, error)
	Create(ctx context.Context, unit *types.Unit) error
	SetStatus(ctx context.Context, unitID string, status types.UnitStatus) error
}

type TenantStore interface {
	Tenant(ctx context.Context, userID string) (*types.Tenant, error)
	Tenants(ctx context.Context, filter types.TenantFilter) ([]*types.Tenant, error)
	TenantByUnit(ctx context.Context, unitID string) (*types.Tenant, error)
	Upsert(ctx context.Context, tenant *types.Tenant) error
	SetLeaseDocument(ctx context.Context, userID, documentURL string, uploadedAt time.Time) error
}

type MaintenanceStore interface {
	Request(ctx context.Context, requestID string) (*types.MaintenanceRequest, error)
	Requests(ctx context.Context, filter types.MaintenanceFilter) ([]*types.MaintenanceRequest, error)
	Create(ctx context.Context, request *types.MaintenanceRequest) error
	Update(ctx context.Context, requestID string, request *types.MaintenanceRequest) error
	Delete(ctx context.Context, requestID string) error
	AppendUpdate(ctx context.Context, update *types.MaintenanceUpdate) error
	UpdatesByRequest(ctx context.Context, requestID string) ([]*types.MaintenanceUpdate, error)
}

type PaymentStore interface {
	Payment(ctx context.Context, paymentID string) (*types.Payment, error)
	PaymentByRef(ctx context.Context, gatewayRef string) (*types.Payment, error)
	Payments(ctx context.Context, filter types.PaymentFilter) ([]*types.Payment, error)
	Create(ctx context.Context, payment *types.Payment) error
	Update(ctx context.Context, paymentID string, payment *types.Payment) error
}

type NotificationStore interface {
	Create(ctx context.Context, notification *types.Notification) error
	ByUser(ctx context.Context, userID string, limit uint64) ([]*types.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

// Stores bundles the repositories the handlers depend on.
type Stores struct {
	Users         UserStore
	Properties    PropertyStore
	Units         UnitStore
	Tenants       TenantStore
	Maintenance   MaintenanceStore
	Payments      PaymentStore
	Notifications NotificationStore
}

// CognitoAPI is the slice of the Cognito client used for credential
// exchange.
type CognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
}

type StripeGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency, userID, description string) (*gateway.StripeIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*gateway.StripeIntent, error)
}

type PayPalGateway interface {
	CreateOrder(ctx context.Context, amount float64, currency string) (string, error)
	CaptureOrder(ctx context.Context, orderID string) error
}

type MpesaGateway interface {
	RequestPayment(ctx context.Context, amount float64, phoneNumber, accountRef string) (string, error)
}

type Service struct {
	logger   *logrus.Logger
	config   *types.Config
	validate *validator.Validate

	stores   Stores
	verifier TokenVerifier
	cognito  CognitoAPI
	objects  storage.ObjectStore

	stripe StripeGateway
	paypal PayPalGateway
	mpesa  MpesaGateway

	dispatcher *notify.Dispatcher

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	stores Stores,
	verifier TokenVerifier,
	cognito CognitoAPI,
	objects storage.ObjectStore,
	stripe StripeGateway,
	paypal PayPalGateway,
	mpesa MpesaGateway,
	dispatcher *notify.Dispatcher,
) *Service {
	mux := flow.New()

	s := &Service{
		logger:   logger,
		config:   config,
		validate: validator.New(),

		stores:   stores,
		verifier: verifier,
		cognito:  cognito,
		objects:  objects,

		stripe: stripe,
		paypal: paypal,
		mpesa:  mpesa,

		dispatcher: dispatcher,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router; used by the endpoint-contract tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleRoot, http.MethodGet)
	r.HandleFunc("/health", s.handleHealth, http.MethodGet)
	r.HandleFunc("/api/v1/info", s.handleAPIInfo, http.MethodGet)

	r.HandleFunc("/register", s.handleRegister, http.MethodPost)
	r.HandleFunc("/login", s.handleLogin, http.MethodPost)
	r.HandleFunc("/login", s.handleLoginInfo, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/profile", s.handleProfile, http.MethodGet)
		r.HandleFunc("/api/users", s.handleListUsers, http.MethodGet)
		r.HandleFunc("/api/users/:id", s.handleGetUser, http.MethodGet)
		r.HandleFunc("/api/users/:id", s.handleUpdateUser, http.MethodPut)
		r.HandleFunc("/api/users/:id", s.handleDeleteUser, http.MethodDelete)

		r.HandleFunc("/api/v1/properties", s.handleListProperties, http.MethodGet)
		r.HandleFunc("/api/v1/properties", s.handleCreateProperty, http.MethodPost)
		r.HandleFunc("/api/v1/properties/:id", s.handleGetProperty, http.MethodGet)
		r.HandleFunc("/api/v1/properties/:id", s.handleUpdateProperty, http.MethodPut)
		r.HandleFunc("/api/v1/properties/:id", s.handleDeleteProperty, http.MethodDelete)
		r.HandleFunc("/api/v1/properties/:id/units", s.handleListUnits, http.MethodGet)
		r.HandleFunc("/api/v1/properties/:id/units", s.handleCreateUnit, http.MethodPost)

		r.HandleFunc("/api/v1/tenants", s.handleListTenants, http.MethodGet)

		r.HandleFunc("/api/v1/maintenance/requests", s.handleListMaintenanceRequests, http.MethodGet)
		r.HandleFunc("/api/v1/maintenance/requests", s.handleCreateMaintenanceRequest, http.MethodPost)
		r.HandleFunc("/api/v1/maintenance/requests/:id", s.handleGetMaintenanceRequest, http.MethodGet)
		r.HandleFunc("/api/v1/maintenance/requests/:id", s.handleUpdateMaintenanceRequest, http.MethodPut)
		r.HandleFunc("/api/v1/maintenance/requests/:id", s.handleDeleteMaintenanceRequest, http.MethodDelete)
		r.HandleFunc("/api/v1/maintenance/requests/:id/assign", s.handleAssignMaintenanceRequest, http.MethodPut)

		r.HandleFunc("/api/v1/payments", s.handleListPayments, http.MethodGet)
		r.HandleFunc("/api/payments/stripe/create-payment-intent", s.handleStripeCreateIntent, http.MethodPost)
		r.HandleFunc("/api/payments/stripe/confirm-payment", s.handleStripeConfirmPayment, http.MethodPost)
		r.HandleFunc("/api/payments/paypal/create-order", s.handlePayPalCreateOrder, http.MethodPost)
		r.HandleFunc("/api/payments/paypal/capture-order", s.handlePayPalCaptureOrder, http.MethodPost)
		r.HandleFunc("/api/payments/mpesa/payment-request", s.handleMpesaPaymentRequest, http.MethodPost)
		r.HandleFunc("/api/payments/history/:userID", s.handlePaymentHistory, http.MethodGet)
		r.HandleFunc("/api/payments/receipt/:userID/:paymentID", s.handlePaymentReceipt, http.MethodGet)

		r.HandleFunc("/api/files/upload", s.handleFileUpload, http.MethodPost)
		r.HandleFunc("/api/files/lease/:userID", s.handleLeaseUpload, http.MethodPost)
		r.HandleFunc("/api/files/maintenance/:userID", s.handleMaintenancePhotoUpload, http.MethodPost)

		r.HandleFunc("/api/notifications/email", s.handleSendEmail, http.MethodPost)
		r.HandleFunc("/api/notifications/push", s.handleSendPush, http.MethodPost)
		r.HandleFunc("/api/notifications/user/:userID", s.handleListNotifications, http.MethodGet)
		r.HandleFunc("/api/notifications/user/:userID/read/:notificationID", s.handleMarkNotificationRead, http.MethodPost)

		r.HandleFunc("/api/v1/dashboard/user", s.handleUserDashboard, http.MethodGet)
		r.HandleFunc("/api/v1/dashboard/staff", s.handleStaffDashboard, http.MethodGet)
		r.HandleFunc("/api/v1/dashboard/admin", s.handleAdminDashboard, http.MethodGet)
		r.HandleFunc("/api/v1/reports/rent-due", s.handleRentDueReport, http.MethodGet)
		r.HandleFunc("/api/v1/reports/kpi", s.handleKPIReport, http.MethodGet)
	})
}

func (s *Service) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message":     "Rental Management System API",
		"environment": s.config.Environment,
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Service) handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"api_version": "v1",
		"endpoints": map[string]string{
			"dashboard":   "/api/v1/dashboard",
			"properties":  "/api/v1/properties",
			"maintenance": "/api/v1/maintenance",
			"payments":    "/api/v1/payments",
			"tenants":     "/api/v1/tenants",
		},
	})
}
