package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan is a subscription tier
type Plan struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Slug      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Features []PlanFeature `gorm:"foreignKey:PlanID" json:"features,omitempty"`
}

func (Plan) TableName() string {
	return "plans"
}

// PlanFeature toggles one feature slug for a plan. A slug without a row is disabled.
type PlanFeature struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PlanID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_plan_feature" json:"plan_id"`
	FeatureSlug string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_plan_feature" json:"feature_slug"`
	Enabled     bool      `gorm:"not null;default:false" json:"enabled"`
}

func (PlanFeature) TableName() string {
	return "plan_features"
}

// StripePriceMapping links a Stripe price to a local plan
type StripePriceMapping struct {
	ID      int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PriceID string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"price_id"`
	PlanID  uuid.UUID `gorm:"type:uuid;not null;index" json:"plan_id"`

	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (StripePriceMapping) TableName() string {
	return "stripe_price_mappings"
}
