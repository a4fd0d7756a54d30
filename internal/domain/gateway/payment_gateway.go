package gateway

import (
	"context"
	"errors"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// Subscription event types handled by the reconciler
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// SubscriptionEvent is the provider-neutral view of a verified webhook event.
// Subscription fields are empty for event types that do not carry a subscription.
type SubscriptionEvent struct {
	ID             string
	Type           string
	SubscriptionID string
	CustomerID     string
	PriceID        string
	Status         string
}

type CheckoutParams struct {
	PriceID       string
	CustomerEmail string
	UserID        string
}

// PaymentGateway is the payment processor seen by the billing usecases
type PaymentGateway interface {
	// ParseWebhook verifies the signature header before decoding the payload.
	ParseWebhook(payload []byte, signature string) (*SubscriptionEvent, error)
	CustomerEmail(ctx context.Context, customerID string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
}

// EventPublisher publishes domain events to the message broker
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
	Close()
}
