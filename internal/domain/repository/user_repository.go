package repository

import (
	"qrenoo/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	// EnsureExists inserts the user mirror row, keeping an existing row untouched.
	EnsureExists(db *gorm.DB, user *entity.User) error
}

type AdminUserViewRepository interface {
	FindAll(db *gorm.DB) ([]entity.AdminUserView, error)
}
