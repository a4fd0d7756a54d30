package repository

import (
	"errors"

	"qrenoo/internal/domain/entity"
	domainRepo "qrenoo/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type planRepository struct{}

func NewPlanRepository() domainRepo.PlanRepository {
	return &planRepository{}
}

func (r *planRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Plan, error) {
	var plan entity.Plan
	err := db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindFeatures(db *gorm.DB, planID uuid.UUID) ([]entity.PlanFeature, error) {
	var features []entity.PlanFeature
	err := db.Where("plan_id = ?", planID).Find(&features).Error
	if err != nil {
		return nil, err
	}
	return features, nil
}

type priceMappingRepository struct{}

func NewPriceMappingRepository() domainRepo.PriceMappingRepository {
	return &priceMappingRepository{}
}

func (r *priceMappingRepository) FindByPriceID(db *gorm.DB, priceID string) (*entity.StripePriceMapping, error) {
	var mapping entity.StripePriceMapping
	err := db.Where("price_id = ?", priceID).First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}
