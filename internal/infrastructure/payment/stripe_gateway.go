package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"qrenoo/config"
	"qrenoo/internal/domain/gateway"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const signatureTolerance = 5 * time.Minute

var ErrMissingCheckoutURL = errors.New("checkout session has no url")

// StripeGateway implements gateway.PaymentGateway with the Stripe API
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

var _ gateway.PaymentGateway = (*StripeGateway)(nil)

// NewStripeGateway builds a client bound to the secret key. backends may be nil.
func NewStripeGateway(cfg config.StripeConfig, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{
		api:           client.New(cfg.SecretKey, backends),
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
	}
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*gateway.SubscriptionEvent, error) {
	if err := webhook.ValidatePayloadWithTolerance(payload, signature, g.webhookSecret, signatureTolerance); err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrInvalidSignature, err)
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}

	out := &gateway.SubscriptionEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch out.Type {
	case gateway.EventSubscriptionCreated, gateway.EventSubscriptionUpdated, gateway.EventSubscriptionDeleted:
	default:
		return out, nil
	}

	if event.Data == nil {
		return nil, errors.New("event has no data")
	}
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription: %w", err)
	}

	out.SubscriptionID = sub.ID
	out.Status = string(sub.Status)
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item != nil && item.Price != nil {
				out.PriceID = item.Price.ID
				break
			}
		}
	}

	return out, nil
}

func (g *StripeGateway) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	customer, err := g.api.Customers.Get(customerID, params)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve customer %s: %w", customerID, err)
	}
	return customer.Email, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p gateway.CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(p.UserID),
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	if session.URL == "" {
		return "", ErrMissingCheckoutURL
	}
	return session.URL, nil
}
