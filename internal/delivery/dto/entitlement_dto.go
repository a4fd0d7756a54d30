package dto

import "github.com/google/uuid"

type FeaturesResponse struct {
	PlanID   *uuid.UUID      `json:"plan_id,omitempty"`
	Features map[string]bool `json:"features"`
}

// AccessDecision is the outcome of a feature check. RedirectURL is set on denial.
type AccessDecision struct {
	Allowed     bool   `json:"allowed"`
	Feature     string `json:"feature"`
	RedirectURL string `json:"redirect_url,omitempty"`
}
