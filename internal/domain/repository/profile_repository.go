package repository

import (
	"qrenoo/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileSubscription holds the billing fields written on a profile.
// A nil PlanID leaves plan_id untouched unless ClearPlan is set.
type ProfileSubscription struct {
	PlanID             *uuid.UUID
	ClearPlan          bool
	SubscriptionID     *string
	SubscriptionStatus string
}

type ProfileRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Profile, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Profile, error)
	FindByEmail(db *gorm.DB, email string) ([]entity.Profile, error)
	FindBySubscriptionID(db *gorm.DB, subscriptionID string) ([]entity.Profile, error)
	UpdateDetails(db *gorm.DB, profile *entity.Profile) error
	UpsertDetails(db *gorm.DB, profile *entity.Profile) error
	UpdateSubscription(db *gorm.DB, profileID uuid.UUID, sub ProfileSubscription) error
	UpsertSubscription(db *gorm.DB, profile *entity.Profile) error
}
