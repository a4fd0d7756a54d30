package repository

import (
	"qrenoo/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Plan, error)
	FindFeatures(db *gorm.DB, planID uuid.UUID) ([]entity.PlanFeature, error)
}

type PriceMappingRepository interface {
	FindByPriceID(db *gorm.DB, priceID string) (*entity.StripePriceMapping, error)
}
