package dto

import (
	"time"

	"qrenoo/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type DayScheduleRequest struct {
	Open     string `json:"open" validate:"required,clock"`
	Close    string `json:"close" validate:"required,clock"`
	Interval int    `json:"interval" validate:"required,min=1,max=1440"`
}

type UpdateProfileRequest struct {
	FullName   string                `json:"full_name" validate:"max=255"`
	Profession string                `json:"profession" validate:"max=100"`
	Bio        string                `json:"bio" validate:"max=2000"`
	Phone      string                `json:"phone" validate:"max=50"`
	Address    string                `json:"address" validate:"max=500"`
	Schedule   []*DayScheduleRequest `json:"schedule" validate:"omitempty,max=7,dive,omitempty"`
}

// Response DTOs

type ProfileResponse struct {
	ID                 uuid.UUID             `json:"id"`
	UserID             uuid.UUID             `json:"user_id"`
	Email              string                `json:"email"`
	FullName           string                `json:"full_name"`
	Profession         string                `json:"profession"`
	Bio                string                `json:"bio"`
	Phone              string                `json:"phone"`
	Address            string                `json:"address"`
	Schedule           entity.WeeklySchedule `json:"schedule"`
	PlanID             *uuid.UUID            `json:"plan_id,omitempty"`
	SubscriptionID     *string               `json:"subscription_id,omitempty"`
	SubscriptionStatus *string               `json:"subscription_status,omitempty"`
	IsAdmin            bool                  `json:"is_admin"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// PublicProfileResponse is what visitors of a booking page see
type PublicProfileResponse struct {
	ID         uuid.UUID             `json:"id"`
	FullName   string                `json:"full_name"`
	Profession string                `json:"profession"`
	Bio        string                `json:"bio"`
	Phone      string                `json:"phone"`
	Address    string                `json:"address"`
	Schedule   entity.WeeklySchedule `json:"schedule"`
}
