package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type AssignSubscriptionRequest struct {
	UserID         string `json:"user_id" validate:"required,uuid"`
	PlanID         string `json:"plan_id" validate:"required,uuid"`
	SubscriptionID string `json:"subscription_id" validate:"required,max=255"`
}

// Response DTOs

type AdminUserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	CreatedAt          time.Time  `json:"created_at"`
	ProfileID          *uuid.UUID `json:"profile_id,omitempty"`
	FullName           *string    `json:"full_name,omitempty"`
	Profession         *string    `json:"profession,omitempty"`
	IsAdmin            bool       `json:"is_admin"`
	PlanID             *uuid.UUID `json:"plan_id,omitempty"`
	PlanName           *string    `json:"plan_name,omitempty"`
	PlanSlug           *string    `json:"plan_slug,omitempty"`
	SubscriptionID     *string    `json:"subscription_id,omitempty"`
	SubscriptionStatus *string    `json:"subscription_status,omitempty"`
}

type AdminUserListResponse struct {
	Users []AdminUserResponse `json:"users"`
}

type LogResponse struct {
	ID        int64                  `json:"id"`
	Level     string                 `json:"level"`
	Source    string                 `json:"source"`
	Message   string                 `json:"message"`
	UserID    *uuid.UUID             `json:"user_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type LogListResponse struct {
	Logs  []LogResponse `json:"logs"`
	Total int           `json:"total"`
}
