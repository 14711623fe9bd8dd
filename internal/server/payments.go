package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"rentdesk/internal/notify"
	"rentdesk/pkg/types"
)

func (s *Service) handleListPayments(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())

	var filter types.PaymentFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	// Tenants are pinned to their own ledger; staff and admins may scope
	// by tenant_id.
	if caller.Role == types.UserRoleTenant {
		filter.TenantID = caller.ID
	}

	payments, err := s.stores.Payments.Payments(r.Context(), filter)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, payments)
}

type stripeIntentInput struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

func (s *Service) handleStripeCreateIntent(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())

	var in stripeIntentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "a positive amount is required")
		return
	}

	if in.Currency == "" {
		in.Currency = "usd"
	}

	// Stripe amounts are integer minor units.
	amountCents := int64(math.Round(in.Amount * 100))

	intent, err := s.stripe.CreateIntent(r.Context(), amountCents, in.Currency, caller.ID, in.Description)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	payment := &types.Payment{
		TenantID:   caller.ID,
		Amount:     in.Amount,
		Currency:   in.Currency,
		Method:     types.PaymentMethodStripe,
		GatewayRef: &intent.ID,
	}
	if in.Description != "" {
		payment.Description = &in.Description
	}

	if err := s.stores.Payments.Create(r.Context(), payment); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"payment_id":        payment.ID,
		"payment_intent_id": intent.ID,
		"client_secret":     intent.ClientSecret,
	})
}

type stripeConfirmInput struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func (s *Service) handleStripeConfirmPayment(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())

	var in stripeConfirmInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "payment_intent_id is required")
		return
	}

	intent, err := s.stripe.RetrieveIntent(r.Context(), in.PaymentIntentID)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	if intent.Status != "succeeded" {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("payment intent is %s, not succeeded", intent.Status))
		return
	}

	payment, err := s.stores.Payments.PaymentByRef(r.Context(), in.PaymentIntentID)
	if err != nil {
		if err == types.ErrPaymentNotFound {
			s.respondError(w, http.StatusNotFound, "payment not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	if caller.Role == types.UserRoleTenant && payment.TenantID != caller.ID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	// Confirming twice must not apply the amount twice.
	if payment.Status != types.PaymentStatusPaid {
		if err := s.settlePayment(r, payment); err != nil {
			s.internalServerError(w, err)
			return
		}
	}

	s.respondJSON(w, http.StatusOK, payment)
}

type paypalOrderInput struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Currency string  `json:"currency"`
}

func (s *Service) handlePayPalCreateOrder(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())

	var in paypalOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "a positive amount is required")
		return
	}

	if in.Currency == "" {
		in.Currency = "USD"
	}

	orderID, err := s.paypal.CreateOrder(r.Context(), in.Amount, in.Currency)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	payment := &types.Payment{
		TenantID:   caller.ID,
		Amount:     in.Amount,
		Currency:   in.Currency,
		Method:     types.PaymentMethodPayPal,
		GatewayRef: &orderID,
	}

	if err := s.stores.Payments.Create(r.Context(), payment); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"payment_id": payment.ID,
		"order_id":   orderID,
	})
}

type paypalCaptureInput struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (s *Service) handlePayPalCaptureOrder(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())

	var in paypalCaptureInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	payment, err := s.stores.Payments.PaymentByRef(r.Context(), in.OrderID)
	if err != nil {
		if err == types.ErrPaymentNotFound {
			s.respondError(w, http.StatusNotFound, "payment not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	if caller.Role == types.UserRoleTenant && payment.TenantID != caller.ID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	if err := s.paypal.CaptureOrder(r.Context(), in.OrderID); err != nil {
		s.internalServerError(w, err)
		return
	}

	if err := s.settlePayment(r, payment); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, payment)
}

type mpesaPaymentInput struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	PhoneNumber string  `json:"phone_number" validate:"required"`
}

func (s *Service) handleMpesaPaymentRequest(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())

	var in mpesaPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "a positive amount and phone_number are required")
		return
	}

	checkoutID, err := s.mpesa.RequestPayment(r.Context(), in.Amount, in.PhoneNumber, caller.ID)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	payment := &types.Payment{
		TenantID:    caller.ID,
		Amount:      in.Amount,
		Currency:    "KES",
		Method:      types.PaymentMethodMpesa,
		GatewayRef:  &checkoutID,
		PhoneNumber: &in.PhoneNumber,
	}

	if err := s.stores.Payments.Create(r.Context(), payment); err != nil {
		s.internalServerError(w, err)
		return
	}

	// An accepted STK push is recorded as settled.
	if err := s.settlePayment(r, payment); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"payment_id":          payment.ID,
		"checkout_request_id": checkoutID,
	})
}

func (s *Service) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	userID := r.PathValue("userID")

	if caller.Role == types.UserRoleTenant && caller.ID != userID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	payments, err := s.stores.Payments.Payments(r.Context(), types.PaymentFilter{
		TenantID: userID,
		Limit:    20,
	})
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, payments)
}

func (s *Service) handlePaymentReceipt(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	userID := r.PathValue("userID")
	paymentID := r.PathValue("paymentID")

	if caller.Role == types.UserRoleTenant && caller.ID != userID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	payment, err := s.stores.Payments.Payment(r.Context(), paymentID)
	if err != nil {
		if err == types.ErrPaymentNotFound {
			s.respondError(w, http.StatusNotFound, "payment not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	if payment.TenantID != userID {
		s.respondError(w, http.StatusNotFound, "payment not found")
		return
	}

	user, err := s.stores.Users.User(r.Context(), userID)
	if err != nil && err != types.ErrUserNotFound {
		s.internalServerError(w, err)
		return
	}

	name := userID
	if user != nil && user.Name != nil {
		name = *user.Name
	}

	paidDate := "-"
	if payment.PaidDate != nil {
		paidDate = payment.PaidDate.Format("2006-01-02")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, receiptTemplate,
		payment.ID, name, payment.Amount, payment.Currency, payment.Method, payment.Status, paidDate)
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head><title>Payment Receipt</title></head>
<body>
<h1>Payment Receipt</h1>
<p>Receipt No: %s</p>
<p>Tenant: %s</p>
<p>Amount: %.2f %s</p>
<p>Method: %s</p>
<p>Status: %s</p>
<p>Paid: %s</p>
</body>
</html>
`

// settlePayment marks the payment paid, applies it against the tenant's
// outstanding balance and queues the confirmation email.
func (s *Service) settlePayment(r *http.Request, payment *types.Payment) error {
	now := time.Now()
	payment.Status = types.PaymentStatusPaid
	payment.PaidDate = &now

	if err := s.stores.Payments.Update(r.Context(), payment.ID, payment); err != nil {
		return err
	}

	tenant, err := s.stores.Users.User(r.Context(), payment.TenantID)
	if err != nil {
		return err
	}

	balance := tenant.Balance - payment.Amount
	if balance < 0 {
		balance = 0
	}

	if err := s.stores.Users.SetBalance(r.Context(), tenant.ID, balance); err != nil {
		return err
	}

	if tenant.Email != nil {
		s.dispatcher.EnqueueEmail(notify.Email{
			To:      *tenant.Email,
			Subject: "Payment Confirmation",
			Body: fmt.Sprintf("We received your payment of %.2f %s. Your remaining balance is %.2f.",
				payment.Amount, payment.Currency, balance),
		})
	}

	return nil
}
