package entity

import (
	"time"

	"github.com/google/uuid"
)

// AdminUserView is a row of admin_users_view: users joined with profile and plan
type AdminUserView struct {
	ID                 uuid.UUID  `gorm:"column:id" json:"id"`
	Email              string     `gorm:"column:email" json:"email"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	ProfileID          *uuid.UUID `gorm:"column:profile_id" json:"profile_id,omitempty"`
	FullName           *string    `gorm:"column:full_name" json:"full_name,omitempty"`
	Profession         *string    `gorm:"column:profession" json:"profession,omitempty"`
	IsAdmin            bool       `gorm:"column:is_admin" json:"is_admin"`
	PlanID             *uuid.UUID `gorm:"column:plan_id" json:"plan_id,omitempty"`
	PlanName           *string    `gorm:"column:plan_name" json:"plan_name,omitempty"`
	PlanSlug           *string    `gorm:"column:plan_slug" json:"plan_slug,omitempty"`
	SubscriptionID     *string    `gorm:"column:subscription_id" json:"subscription_id,omitempty"`
	SubscriptionStatus *string    `gorm:"column:subscription_status" json:"subscription_status,omitempty"`
}

func (AdminUserView) TableName() string {
	return "admin_users_view"
}
