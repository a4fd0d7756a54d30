package usecase

import (
	"context"
	"net/url"

	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/delivery/http/middleware"
	"qrenoo/internal/domain/entity"
	"qrenoo/internal/domain/repository"
	"qrenoo/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EntitlementUsecase interface {
	LoadFeatures(ctx context.Context, userID uuid.UUID) (entity.FeatureSet, error)
	HasAccess(ctx context.Context, userID uuid.UUID, feature string) (bool, error)
	CheckAccess(ctx context.Context, userID uuid.UUID, feature string, redirectTarget string) (*dto.AccessDecision, error)
	GetMyFeatures(ctx context.Context) (*dto.FeaturesResponse, error)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type entitlementUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	profileRepo repository.ProfileRepository
	planRepo    repository.PlanRepository
	cache       service.FeatureCache
	pricingPath string
}

func NewEntitlementUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	profileRepo repository.ProfileRepository,
	planRepo repository.PlanRepository,
	cache service.FeatureCache,
	pricingPath string,
) EntitlementUsecase {
	return &entitlementUsecase{
		db:          db,
		log:         log,
		profileRepo: profileRepo,
		planRepo:    planRepo,
		cache:       cache,
		pricingPath: pricingPath,
	}
}

// LoadFeatures resolves user -> plan -> features.
// A user without profile or plan gets an empty, loaded set.
func (u *entitlementUsecase) LoadFeatures(ctx context.Context, userID uuid.UUID) (entity.FeatureSet, error) {
	if userID == uuid.Nil {
		return entity.NewFeatureSet(nil), nil
	}

	cached, ok, err := u.cache.Get(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to read feature cache for %s: %+v", userID, err)
	}
	if ok {
		return entity.NewFeatureSet(cached), nil
	}

	set, err := u.resolve(ctx, userID)
	if err != nil {
		return entity.FeatureSet{}, err
	}

	if err := u.cache.Set(ctx, userID, set.Map()); err != nil {
		u.log.Warnf("Failed to write feature cache for %s: %+v", userID, err)
	}
	return set, nil
}

func (u *entitlementUsecase) resolve(ctx context.Context, userID uuid.UUID) (entity.FeatureSet, error) {
	profile, err := u.profileRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find profile for user %s: %+v", userID, err)
		return entity.FeatureSet{}, upstream("find profile", err)
	}
	if !profile.HasPlan() {
		return entity.NewFeatureSet(nil), nil
	}

	rows, err := u.planRepo.FindFeatures(u.db.WithContext(ctx), *profile.PlanID)
	if err != nil {
		u.log.Warnf("Failed to find features of plan %s: %+v", *profile.PlanID, err)
		return entity.FeatureSet{}, upstream("find plan features", err)
	}
	return entity.FeatureSetFromRows(rows), nil
}

func (u *entitlementUsecase) HasAccess(ctx context.Context, userID uuid.UUID, feature string) (bool, error) {
	set, err := u.LoadFeatures(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.HasAccess(feature), nil
}

// CheckAccess returns a denial carrying redirectTarget?feature=<slug>.
// An empty redirectTarget falls back to the pricing page.
func (u *entitlementUsecase) CheckAccess(ctx context.Context, userID uuid.UUID, feature string, redirectTarget string) (*dto.AccessDecision, error) {
	allowed, err := u.HasAccess(ctx, userID, feature)
	if err != nil {
		return nil, err
	}

	decision := &dto.AccessDecision{Allowed: allowed, Feature: feature}
	if !allowed {
		if redirectTarget == "" {
			redirectTarget = u.pricingPath
		}
		decision.RedirectURL = withFeatureParam(redirectTarget, feature)
	}
	return decision, nil
}

func (u *entitlementUsecase) GetMyFeatures(ctx context.Context) (*dto.FeaturesResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	profile, err := u.profileRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find profile for user %s: %+v", userID, err)
		return nil, upstream("find profile", err)
	}

	set, err := u.LoadFeatures(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.FeaturesResponse{Features: set.Map()}
	if profile != nil {
		resp.PlanID = profile.PlanID
	}
	return resp, nil
}

// Invalidate drops the cached feature map; failures only delay the change until the TTL.
func (u *entitlementUsecase) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := u.cache.Invalidate(ctx, userID); err != nil {
		u.log.Warnf("Failed to invalidate feature cache for %s: %+v", userID, err)
	}
}

func withFeatureParam(target, feature string) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return target
	}
	query := parsed.Query()
	query.Set("feature", feature)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
