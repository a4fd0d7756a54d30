package repository

import (
	"qrenoo/internal/domain/entity"
	domainRepo "qrenoo/internal/domain/repository"

	"gorm.io/gorm"
)

type logRepository struct{}

func NewLogRepository() domainRepo.LogRepository {
	return &logRepository{}
}

func (r *logRepository) Create(db *gorm.DB, log *entity.Log) error {
	return db.Create(log).Error
}

func (r *logRepository) FindBySource(db *gorm.DB, source string, limit int) ([]entity.Log, error) {
	var logs []entity.Log
	err := db.Where("source = ?", source).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
