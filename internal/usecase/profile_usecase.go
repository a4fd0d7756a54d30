package usecase

import (
	"context"
	"fmt"
	"strings"

	"qrenoo/internal/converter"
	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/delivery/http/middleware"
	"qrenoo/internal/domain/entity"
	"qrenoo/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ProfileUsecase interface {
	GetMyProfile(ctx context.Context) (*dto.ProfileResponse, error)
	UpdateMyProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

func NewProfileUsecase(db *gorm.DB, log *logrus.Logger, userRepo repository.UserRepository, profileRepo repository.ProfileRepository) ProfileUsecase {
	return &profileUsecase{
		db:          db,
		log:         log,
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (u *profileUsecase) GetMyProfile(ctx context.Context) (*dto.ProfileResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	profile, err := u.profileRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find profile for user %s: %+v", userID, err)
		return nil, upstream("find profile", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	return converter.ProfileToResponse(profile), nil
}

// UpdateMyProfile rewrites the self-service fields, creating the profile on first setup.
// Plan, subscription and admin columns are not touched.
func (u *profileUsecase) UpdateMyProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	schedule := converter.ScheduleFromRequest(req.Schedule)
	if err := schedule.Validate(); err != nil {
		return nil, NewValidationError(map[string]string{"schedule": err.Error()})
	}

	profile, err := u.profileRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find profile for user %s: %+v", userID, err)
		return nil, upstream("find profile", err)
	}

	if profile == nil {
		email, _ := middleware.GetUserEmailFromContext(ctx)
		profile = &entity.Profile{UserID: userID, Email: strings.TrimSpace(email)}
		applyProfileDetails(profile, req, schedule)
		if err := u.createProfile(ctx, profile); err != nil {
			return nil, err
		}
		return converter.ProfileToResponse(profile), nil
	}

	applyProfileDetails(profile, req, schedule)
	if err := u.profileRepo.UpdateDetails(u.db.WithContext(ctx), profile); err != nil {
		u.log.Warnf("Failed to update profile %s: %+v", profile.ID, err)
		return nil, upstream(fmt.Sprintf("update profile %s", profile.ID), err)
	}

	return converter.ProfileToResponse(profile), nil
}

// createProfile mirrors the signed-in user into users, then inserts the profile.
func (u *profileUsecase) createProfile(ctx context.Context, profile *entity.Profile) error {
	if profile.Email == "" {
		return NewValidationError(map[string]string{"email": "session carries no email"})
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.userRepo.EnsureExists(tx, &entity.User{ID: profile.UserID, Email: profile.Email}); err != nil {
		u.log.Warnf("Failed to create user %s: %+v", profile.UserID, err)
		return upstream("create user", err)
	}

	if err := u.profileRepo.UpsertDetails(tx, profile); err != nil {
		u.log.Warnf("Failed to create profile for user %s: %+v", profile.UserID, err)
		return upstream("create profile", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit profile setup for user %s: %+v", profile.UserID, err)
		return upstream("commit profile setup", err)
	}

	u.log.WithField("user_id", profile.UserID).Info("Profile created")
	return nil
}

func applyProfileDetails(profile *entity.Profile, req *dto.UpdateProfileRequest, schedule entity.WeeklySchedule) {
	profile.FullName = strings.TrimSpace(req.FullName)
	profile.Profession = strings.TrimSpace(req.Profession)
	profile.Bio = strings.TrimSpace(req.Bio)
	profile.Phone = strings.TrimSpace(req.Phone)
	profile.Address = strings.TrimSpace(req.Address)
	profile.Schedule = schedule
}
