package usecase

import (
	"context"
	"strings"
	"time"

	"qrenoo/internal/converter"
	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/domain/entity"
	"qrenoo/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityUsecase interface {
	GetPublicProfile(ctx context.Context, proID uuid.UUID) (*dto.PublicProfileResponse, error)
	GetAvailableSlots(ctx context.Context, proID uuid.UUID, date string) (*dto.SlotsResponse, error)
}

type availabilityUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	profileRepo repository.ProfileRepository
	rdvRepo     repository.RendezvousRepository
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	profileRepo repository.ProfileRepository,
	rdvRepo repository.RendezvousRepository,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:          db,
		log:         log,
		profileRepo: profileRepo,
		rdvRepo:     rdvRepo,
	}
}

func (u *availabilityUsecase) GetPublicProfile(ctx context.Context, proID uuid.UUID) (*dto.PublicProfileResponse, error) {
	pro, err := u.findPro(ctx, proID)
	if err != nil {
		return nil, err
	}
	return converter.ProfileToPublicResponse(pro), nil
}

// GetAvailableSlots lists the day's schedule slots that are not booked yet.
// Pending rendezvous hold their slot until confirmed or swept.
func (u *availabilityUsecase) GetAvailableSlots(ctx context.Context, proID uuid.UUID, date string) (*dto.SlotsResponse, error) {
	day, err := time.Parse(entity.DateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, NewValidationError(map[string]string{"date": "date must be formatted as YYYY-MM-DD"})
	}

	pro, err := u.findPro(ctx, proID)
	if err != nil {
		return nil, err
	}

	slots := pro.Schedule.SlotsFor(day)
	if len(slots) == 0 {
		return &dto.SlotsResponse{ProID: proID, Date: day.Format(entity.DateLayout), Slots: []string{}}, nil
	}

	booked, err := u.rdvRepo.FindBookedTimes(u.db.WithContext(ctx), proID, day)
	if err != nil {
		u.log.Warnf("Failed to find booked times for %s on %s: %+v", proID, date, err)
		return nil, upstream("find booked times", err)
	}

	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		if minutes, err := entity.ParseClock(t); err == nil {
			taken[entity.FormatClock(minutes)] = true
		}
	}

	available := make([]string, 0, len(slots))
	for _, slot := range slots {
		if !taken[slot] {
			available = append(available, slot)
		}
	}

	return &dto.SlotsResponse{
		ProID: proID,
		Date:  day.Format(entity.DateLayout),
		Slots: available,
	}, nil
}

func (u *availabilityUsecase) findPro(ctx context.Context, proID uuid.UUID) (*entity.Profile, error) {
	pro, err := u.profileRepo.FindByID(u.db.WithContext(ctx), proID)
	if err != nil {
		u.log.Warnf("Failed to find professional %s: %+v", proID, err)
		return nil, upstream("find professional", err)
	}
	if pro == nil {
		return nil, ErrProNotFound
	}
	return pro, nil
}
