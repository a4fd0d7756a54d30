package repository

import (
	"errors"

	"qrenoo/internal/domain/entity"
	domainRepo "qrenoo/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EnsureExists(db *gorm.DB, user *entity.User) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(user).Error
}

type adminUserViewRepository struct{}

func NewAdminUserViewRepository() domainRepo.AdminUserViewRepository {
	return &adminUserViewRepository{}
}

func (r *adminUserViewRepository) FindAll(db *gorm.DB) ([]entity.AdminUserView, error) {
	var rows []entity.AdminUserView
	err := db.Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
