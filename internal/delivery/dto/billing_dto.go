package dto

// Request DTOs

type CheckoutRequest struct {
	PriceID string `json:"price_id" validate:"required,max=255"`
}

// Response DTOs

type CheckoutResponse struct {
	URL string `json:"url"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

// WebhookResult describes what the reconciler did with one event
type WebhookResult struct {
	EventID         string `json:"event_id"`
	EventType       string `json:"event_type"`
	Applied         bool   `json:"applied"`
	ProfilesUpdated int    `json:"profiles_updated"`
	Reason          string `json:"reason,omitempty"`
}
