package repository

import (
	"errors"

	"qrenoo/internal/domain/entity"
	domainRepo "qrenoo/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepository struct{}

func NewProfileRepository() domainRepo.ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Profile, error) {
	return r.findOne(db, "id = ?", id)
}

func (r *profileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Profile, error) {
	return r.findOne(db, "user_id = ?", userID)
}

func (r *profileRepository) findOne(db *gorm.DB, query string, arg interface{}) (*entity.Profile, error) {
	var profile entity.Profile
	err := db.Where(query, arg).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByEmail(db *gorm.DB, email string) ([]entity.Profile, error) {
	var profiles []entity.Profile
	err := db.Where("LOWER(email) = LOWER(?)", email).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) FindBySubscriptionID(db *gorm.DB, subscriptionID string) ([]entity.Profile, error) {
	var profiles []entity.Profile
	err := db.Where("subscription_id = ?", subscriptionID).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateDetails writes the self-service fields only.
func (r *profileRepository) UpdateDetails(db *gorm.DB, profile *entity.Profile) error {
	return db.Model(profile).
		Select("full_name", "profession", "bio", "phone", "address", "schedule").
		Updates(profile).Error
}

// UpsertDetails creates the profile on first setup or rewrites the self-service fields on user_id conflict.
func (r *profileRepository) UpsertDetails(db *gorm.DB, profile *entity.Profile) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "profession", "bio", "phone", "address", "schedule", "updated_at"}),
	}).Create(profile).Error
}

func (r *profileRepository) UpdateSubscription(db *gorm.DB, profileID uuid.UUID, sub domainRepo.ProfileSubscription) error {
	updates := map[string]interface{}{
		"subscription_status": sub.SubscriptionStatus,
	}
	if sub.SubscriptionID != nil {
		updates["subscription_id"] = *sub.SubscriptionID
	}
	if sub.PlanID != nil {
		updates["plan_id"] = *sub.PlanID
	} else if sub.ClearPlan {
		updates["plan_id"] = nil
	}

	return db.Model(&entity.Profile{}).
		Where("id = ?", profileID).
		Updates(updates).Error
}

// UpsertSubscription inserts the profile or overwrites its billing fields on user_id conflict.
func (r *profileRepository) UpsertSubscription(db *gorm.DB, profile *entity.Profile) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plan_id", "subscription_id", "subscription_status", "updated_at"}),
	}).Create(profile).Error
}
