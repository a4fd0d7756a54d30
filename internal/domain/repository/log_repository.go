package repository

import (
	"qrenoo/internal/domain/entity"

	"gorm.io/gorm"
)

type LogRepository interface {
	Create(db *gorm.DB, log *entity.Log) error
	FindBySource(db *gorm.DB, source string, limit int) ([]entity.Log, error)
}
