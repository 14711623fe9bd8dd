package gateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"
)

// StripeIntent is the subset of a PaymentIntent the handlers care about.
type StripeIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Currency     string
}

type StripeGateway struct {
	client *stripe.Client
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{client: stripe.NewClient(secretKey)}
}

// CreateIntent opens a PaymentIntent for the given amount in cents.
func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, currency, userID, description string) (*StripeIntent, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"user_id":     userID,
			"description": description,
		},
	}

	intent, err := g.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &StripeIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Currency:     string(intent.Currency),
	}, nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, intentID string) (*StripeIntent, error) {
	intent, err := g.client.V1PaymentIntents.Retrieve(ctx, intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent %s: %w", intentID, err)
	}

	return &StripeIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Currency:     string(intent.Currency),
	}, nil
}
