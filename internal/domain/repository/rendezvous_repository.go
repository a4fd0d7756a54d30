package repository

import (
	"time"

	"qrenoo/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RendezvousRepository interface {
	Create(db *gorm.DB, rdv *entity.Rendezvous) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Rendezvous, error)
	FindByPro(db *gorm.DB, proID uuid.UUID) ([]entity.Rendezvous, error)
	FindBookedTimes(db *gorm.DB, proID uuid.UUID, date time.Time) ([]string, error)
	MarkValidated(db *gorm.DB, id uuid.UUID) (int64, error)
	DeleteExpired(db *gorm.DB, cutoff time.Time) (int64, error)
}
