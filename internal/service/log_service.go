package service

import (
	"context"

	"qrenoo/internal/domain/entity"
	"qrenoo/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LogService writes audit and dead-letter rows to the logs table
type LogService interface {
	LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	DeadLetter(ctx context.Context, tx *gorm.DB, source string, reason string, metadata entity.JSON) error
	Recent(ctx context.Context, tx *gorm.DB, source string, limit int) ([]entity.Log, error)
}

type logService struct {
	log     *logrus.Logger
	logRepo repository.LogRepository
}

func NewLogService(log *logrus.Logger, logRepo repository.LogRepository) LogService {
	return &logService{
		log:     log,
		logRepo: logRepo,
	}
}

// LogUpdate logs an update action with old and new values
func (s *logService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	row := &entity.Log{
		Level:   entity.LogLevelInfo,
		Source:  entity.LogSourceAdmin,
		Message: action,
		UserID:  userID,
		Metadata: entity.JSON{
			"action":    action,
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.logRepo.Create(tx.WithContext(ctx), row); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

// DeadLetter records an event that was acknowledged without being applied
func (s *logService) DeadLetter(ctx context.Context, tx *gorm.DB, source string, reason string, metadata entity.JSON) error {
	if metadata == nil {
		metadata = entity.JSON{}
	}
	metadata["action"] = entity.LogActionWebhookUnresolved
	metadata["reason"] = reason

	row := &entity.Log{
		Level:    entity.LogLevelWarn,
		Source:   source,
		Message:  reason,
		Metadata: metadata,
	}

	if err := s.logRepo.Create(tx.WithContext(ctx), row); err != nil {
		s.log.Warnf("Failed to write dead-letter log: %+v", err)
		return err
	}

	return nil
}

// Recent returns the newest rows written by source
func (s *logService) Recent(ctx context.Context, tx *gorm.DB, source string, limit int) ([]entity.Log, error) {
	rows, err := s.logRepo.FindBySource(tx.WithContext(ctx), source, limit)
	if err != nil {
		s.log.Warnf("Failed to find logs for source %s: %+v", source, err)
		return nil, err
	}
	return rows, nil
}
