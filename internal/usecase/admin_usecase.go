package usecase

import (
	"context"
	"fmt"

	"qrenoo/internal/converter"
	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/delivery/http/middleware"
	"qrenoo/internal/domain/entity"
	"qrenoo/internal/domain/repository"
	"qrenoo/internal/service"
	"qrenoo/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNotAdmin     = fmt.Errorf("%w: admin access required", ErrForbidden)
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrPlanNotFound = fmt.Errorf("%w: plan not found", ErrNotFound)
)

type AdminUsecase interface {
	AssignSubscription(ctx context.Context, req *dto.AssignSubscriptionRequest) (*dto.ProfileResponse, error)
	ListUsers(ctx context.Context) (*dto.AdminUserListResponse, error)
	ListLogs(ctx context.Context, source string, limit int) (*dto.LogListResponse, error)
}

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

type adminUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validator    *validator.CustomValidator
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	planRepo     repository.PlanRepository
	userViewRepo repository.AdminUserViewRepository
	logService   service.LogService
	entitlements EntitlementUsecase
}

func NewAdminUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	planRepo repository.PlanRepository,
	userViewRepo repository.AdminUserViewRepository,
	logService service.LogService,
	entitlements EntitlementUsecase,
) AdminUsecase {
	return &adminUsecase{
		db:           db,
		log:          log,
		validator:    validator,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		planRepo:     planRepo,
		userViewRepo: userViewRepo,
		logService:   logService,
		entitlements: entitlements,
	}
}

// requireAdmin runs before any validation so non-admins learn nothing about the payload.
func (u *adminUsecase) requireAdmin(ctx context.Context) (uuid.UUID, error) {
	callerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}

	caller, err := u.profileRepo.FindByUserID(u.db.WithContext(ctx), callerID)
	if err != nil {
		u.log.Warnf("Failed to find caller profile %s: %+v", callerID, err)
		return uuid.Nil, upstream("find caller profile", err)
	}
	if caller == nil || !caller.IsAdmin {
		u.log.Warnf("Non-admin %s attempted an admin operation", callerID)
		return uuid.Nil, ErrNotAdmin
	}
	return callerID, nil
}

// AssignSubscription upserts the target profile's plan and subscription,
// writing the audit row in the same transaction.
func (u *adminUsecase) AssignSubscription(ctx context.Context, req *dto.AssignSubscriptionRequest) (*dto.ProfileResponse, error) {
	callerID, err := u.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := u.validator.Validate(req); err != nil {
		return nil, NewValidationError(u.validator.FormatValidationErrors(err))
	}
	userID := uuid.MustParse(req.UserID)
	planID := uuid.MustParse(req.PlanID)

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, upstream("find user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	plan, err := u.planRepo.FindByID(u.db.WithContext(ctx), planID)
	if err != nil {
		u.log.Warnf("Failed to find plan %s: %+v", planID, err)
		return nil, upstream("find plan", err)
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	previous, err := u.profileRepo.FindByUserID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find profile for user %s: %+v", userID, err)
		return nil, upstream("find profile", err)
	}

	status := entity.SubscriptionStatusActive
	subscriptionID := req.SubscriptionID
	profile := &entity.Profile{
		UserID:             userID,
		Email:              user.Email,
		PlanID:             &planID,
		SubscriptionID:     &subscriptionID,
		SubscriptionStatus: &status,
	}
	if err := u.profileRepo.UpsertSubscription(tx, profile); err != nil {
		u.log.Warnf("Failed to assign subscription to %s: %+v", userID, err)
		return nil, upstream("assign subscription", err)
	}

	var oldValue interface{}
	if previous != nil {
		oldValue = map[string]interface{}{
			"plan_id":             previous.PlanID,
			"subscription_id":     previous.SubscriptionID,
			"subscription_status": previous.SubscriptionStatus,
		}
	}
	newValue := map[string]interface{}{
		"plan_id":             planID,
		"subscription_id":     subscriptionID,
		"subscription_status": status,
	}
	if err := u.logService.LogUpdate(ctx, tx, &callerID, entity.LogActionSubscriptionAssign, "profile", userID.String(), oldValue, newValue); err != nil {
		return nil, upstream("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, upstream("commit", err)
	}

	u.entitlements.Invalidate(ctx, userID)

	updated, err := u.profileRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to reload profile for user %s: %+v", userID, err)
		return nil, upstream("reload profile", err)
	}
	if updated == nil {
		updated = profile
	}

	u.log.WithFields(logrus.Fields{
		"admin_id": callerID,
		"user_id":  userID,
		"plan_id":  planID,
	}).Info("Subscription assigned")

	return converter.ProfileToResponse(updated), nil
}

func (u *adminUsecase) ListUsers(ctx context.Context) (*dto.AdminUserListResponse, error) {
	if _, err := u.requireAdmin(ctx); err != nil {
		return nil, err
	}

	rows, err := u.userViewRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, upstream("list users", err)
	}

	return converter.AdminUsersToResponse(rows), nil
}

// ListLogs returns the newest audit or dead-letter rows for one source.
func (u *adminUsecase) ListLogs(ctx context.Context, source string, limit int) (*dto.LogListResponse, error) {
	if _, err := u.requireAdmin(ctx); err != nil {
		return nil, err
	}

	switch source {
	case entity.LogSourceAdmin, entity.LogSourceStripeWebhook:
	default:
		return nil, NewValidationError(map[string]string{"source": "must be one of: admin, stripe_webhook"})
	}
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	rows, err := u.logService.Recent(ctx, u.db, source, limit)
	if err != nil {
		return nil, upstream("list logs", err)
	}

	return converter.LogsToResponse(rows), nil
}
