package repository

import (
	"errors"
	"time"

	"qrenoo/internal/domain/entity"
	domainRepo "qrenoo/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type rendezvousRepository struct{}

func NewRendezvousRepository() domainRepo.RendezvousRepository {
	return &rendezvousRepository{}
}

func (r *rendezvousRepository) Create(db *gorm.DB, rdv *entity.Rendezvous) error {
	return db.Create(rdv).Error
}

func (r *rendezvousRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Rendezvous, error) {
	var rdv entity.Rendezvous
	err := db.Where("id = ?", id).First(&rdv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rdv, nil
}

func (r *rendezvousRepository) FindByPro(db *gorm.DB, proID uuid.UUID) ([]entity.Rendezvous, error) {
	var list []entity.Rendezvous
	err := db.Where("pro_id = ?", proID).
		Order("rdv_date DESC, rdv_time DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// FindBookedTimes returns the times already taken on a date, pending or validated.
func (r *rendezvousRepository) FindBookedTimes(db *gorm.DB, proID uuid.UUID, date time.Time) ([]string, error) {
	var times []string
	err := db.Model(&entity.Rendezvous{}).
		Where("pro_id = ? AND rdv_date = ?", proID, date.Format(entity.DateLayout)).
		Pluck("rdv_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// MarkValidated returns affected rows: 0 when the rendezvous no longer exists.
func (r *rendezvousRepository) MarkValidated(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Rendezvous{}).
		Where("id = ?", id).
		Update("is_validated", true)
	return result.RowsAffected, result.Error
}

// DeleteExpired removes unvalidated rendezvous created before cutoff.
func (r *rendezvousRepository) DeleteExpired(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("is_validated = ? AND created_at < ?", false, cutoff).
		Delete(&entity.Rendezvous{})
	return result.RowsAffected, result.Error
}
