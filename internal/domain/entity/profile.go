package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
)

// Profile is the professional's public and billing record
type Profile struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Email              string         `gorm:"type:varchar(255);index" json:"email"`
	FullName           string         `gorm:"type:varchar(255)" json:"full_name"`
	Profession         string         `gorm:"type:varchar(100)" json:"profession"`
	Bio                string         `gorm:"type:text" json:"bio"`
	Phone              string         `gorm:"type:varchar(50)" json:"phone"`
	Address            string         `gorm:"type:text" json:"address"`
	Schedule           WeeklySchedule `gorm:"type:jsonb;not null;default:'[]'" json:"schedule"`
	PlanID             *uuid.UUID     `gorm:"type:uuid;index" json:"plan_id,omitempty"`
	SubscriptionID     *string        `gorm:"type:varchar(255);index" json:"subscription_id,omitempty"`
	SubscriptionStatus *string        `gorm:"type:varchar(50)" json:"subscription_status,omitempty"`
	IsAdmin            bool           `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Profile) TableName() string {
	return "profiles"
}

// HasPlan reports whether a plan is assigned
func (p *Profile) HasPlan() bool {
	return p != nil && p.PlanID != nil
}
