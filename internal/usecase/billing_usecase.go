package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/delivery/http/middleware"
	"qrenoo/internal/domain/entity"
	"qrenoo/internal/domain/gateway"
	"qrenoo/internal/domain/repository"
	"qrenoo/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrUnknownPrice = fmt.Errorf("%w: unknown price", ErrValidation)

// Reasons recorded when an event is acknowledged without being applied
const (
	reasonIgnoredType      = "ignored event type"
	reasonMissingCustomer  = "event has no customer"
	reasonNoCustomerEmail  = "customer has no email"
	reasonNoProfile        = "no profile matches customer email"
	reasonNoPrice          = "subscription has no price"
	reasonNoPriceMapping   = "no plan mapped to price"
	reasonNoSubscriberRows = "no profile holds subscription"
	reasonNoSubscriptionID = "event has no subscription id"
)

type BillingOptions struct {
	// ResetPlanOnCancel clears plan_id on subscription deletion; otherwise the plan is retained.
	ResetPlanOnCancel bool
	DeadLetterEnabled bool
}

type BillingUsecase interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResult, error)
	CreateCheckoutSession(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type billingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	payments     gateway.PaymentGateway
	profileRepo  repository.ProfileRepository
	priceRepo    repository.PriceMappingRepository
	logService   service.LogService
	entitlements EntitlementUsecase
	opts         BillingOptions
}

func NewBillingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	payments gateway.PaymentGateway,
	profileRepo repository.ProfileRepository,
	priceRepo repository.PriceMappingRepository,
	logService service.LogService,
	entitlements EntitlementUsecase,
	opts BillingOptions,
) BillingUsecase {
	return &billingUsecase{
		db:           db,
		log:          log,
		payments:     payments,
		profileRepo:  profileRepo,
		priceRepo:    priceRepo,
		logService:   logService,
		entitlements: entitlements,
		opts:         opts,
	}
}

// HandleWebhook verifies and applies one payment event.
// Unresolvable events are acknowledged so the processor does not redeliver them;
// only infrastructure failures return an error.
func (u *billingUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResult, error) {
	event, err := u.payments.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSignature) {
			u.log.Warnf("Rejected webhook: %+v", err)
			return nil, fmt.Errorf("%w: %v", ErrSignature, err)
		}
		return nil, NewValidationError(map[string]string{"payload": err.Error()})
	}

	switch event.Type {
	case gateway.EventSubscriptionCreated, gateway.EventSubscriptionUpdated:
		return u.applySubscription(ctx, event)
	case gateway.EventSubscriptionDeleted:
		return u.cancelSubscription(ctx, event)
	default:
		u.log.Debugf("Ignoring webhook event %s of type %s", event.ID, event.Type)
		return &dto.WebhookResult{EventID: event.ID, EventType: event.Type, Reason: reasonIgnoredType}, nil
	}
}

func (u *billingUsecase) applySubscription(ctx context.Context, event *gateway.SubscriptionEvent) (*dto.WebhookResult, error) {
	if event.CustomerID == "" {
		return u.deadLetter(ctx, event, reasonMissingCustomer), nil
	}

	email, err := u.payments.CustomerEmail(ctx, event.CustomerID)
	if err != nil {
		u.log.Warnf("Failed to resolve customer %s: %+v", event.CustomerID, err)
		return nil, upstream("resolve customer", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return u.deadLetter(ctx, event, reasonNoCustomerEmail), nil
	}

	profiles, err := u.profileRepo.FindByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		u.log.Warnf("Failed to find profiles by email: %+v", err)
		return nil, upstream("find profiles by email", err)
	}
	if len(profiles) == 0 {
		return u.deadLetter(ctx, event, reasonNoProfile), nil
	}

	if event.PriceID == "" {
		return u.deadLetter(ctx, event, reasonNoPrice), nil
	}
	mapping, err := u.priceRepo.FindByPriceID(u.db.WithContext(ctx), event.PriceID)
	if err != nil {
		u.log.Warnf("Failed to find price mapping %s: %+v", event.PriceID, err)
		return nil, upstream("find price mapping", err)
	}
	if mapping == nil {
		return u.deadLetter(ctx, event, reasonNoPriceMapping), nil
	}

	planID := mapping.PlanID
	subscriptionID := event.SubscriptionID
	for _, profile := range profiles {
		err := u.profileRepo.UpdateSubscription(u.db.WithContext(ctx), profile.ID, repository.ProfileSubscription{
			PlanID:             &planID,
			SubscriptionID:     &subscriptionID,
			SubscriptionStatus: event.Status,
		})
		if err != nil {
			u.log.Warnf("Failed to update subscription of profile %s: %+v", profile.ID, err)
			return nil, upstream("update profile subscription", err)
		}
		u.entitlements.Invalidate(ctx, profile.UserID)
	}

	u.log.WithFields(logrus.Fields{
		"event_id":        event.ID,
		"subscription_id": event.SubscriptionID,
		"plan_id":         planID,
		"profiles":        len(profiles),
	}).Info("Subscription reconciled")

	return &dto.WebhookResult{
		EventID:         event.ID,
		EventType:       event.Type,
		Applied:         true,
		ProfilesUpdated: len(profiles),
	}, nil
}

func (u *billingUsecase) cancelSubscription(ctx context.Context, event *gateway.SubscriptionEvent) (*dto.WebhookResult, error) {
	if event.SubscriptionID == "" {
		return u.deadLetter(ctx, event, reasonNoSubscriptionID), nil
	}

	profiles, err := u.profileRepo.FindBySubscriptionID(u.db.WithContext(ctx), event.SubscriptionID)
	if err != nil {
		u.log.Warnf("Failed to find profiles by subscription %s: %+v", event.SubscriptionID, err)
		return nil, upstream("find profiles by subscription", err)
	}
	if len(profiles) == 0 {
		return u.deadLetter(ctx, event, reasonNoSubscriberRows), nil
	}

	status := event.Status
	if status == "" {
		status = entity.SubscriptionStatusCanceled
	}

	for _, profile := range profiles {
		err := u.profileRepo.UpdateSubscription(u.db.WithContext(ctx), profile.ID, repository.ProfileSubscription{
			SubscriptionStatus: status,
			ClearPlan:          u.opts.ResetPlanOnCancel,
		})
		if err != nil {
			u.log.Warnf("Failed to cancel subscription of profile %s: %+v", profile.ID, err)
			return nil, upstream("cancel profile subscription", err)
		}
		u.entitlements.Invalidate(ctx, profile.UserID)
	}

	return &dto.WebhookResult{
		EventID:         event.ID,
		EventType:       event.Type,
		Applied:         true,
		ProfilesUpdated: len(profiles),
	}, nil
}

// deadLetter logs the unresolved event and, when enabled, stores it in the logs table.
func (u *billingUsecase) deadLetter(ctx context.Context, event *gateway.SubscriptionEvent, reason string) *dto.WebhookResult {
	u.log.WithFields(logrus.Fields{
		"event_id":        event.ID,
		"event_type":      event.Type,
		"subscription_id": event.SubscriptionID,
		"customer_id":     event.CustomerID,
		"price_id":        event.PriceID,
	}).Warnf("Webhook event not applied: %s", reason)

	if u.opts.DeadLetterEnabled {
		metadata := entity.JSON{
			"event_id":        event.ID,
			"event_type":      event.Type,
			"subscription_id": event.SubscriptionID,
			"customer_id":     event.CustomerID,
			"price_id":        event.PriceID,
			"status":          event.Status,
		}
		if err := u.logService.DeadLetter(ctx, u.db, entity.LogSourceStripeWebhook, reason, metadata); err != nil {
			u.log.Errorf("Failed to dead-letter webhook event %s: %+v", event.ID, err)
		}
	}

	return &dto.WebhookResult{EventID: event.ID, EventType: event.Type, Reason: reason}
}

// CreateCheckoutSession starts a subscription checkout for the caller
func (u *billingUsecase) CreateCheckoutSession(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	priceID := strings.TrimSpace(req.PriceID)
	if priceID == "" {
		return nil, NewValidationError(map[string]string{"price_id": "price_id is required"})
	}

	mapping, err := u.priceRepo.FindByPriceID(u.db.WithContext(ctx), priceID)
	if err != nil {
		u.log.Warnf("Failed to find price mapping %s: %+v", priceID, err)
		return nil, upstream("find price mapping", err)
	}
	if mapping == nil {
		return nil, ErrUnknownPrice
	}

	email, _ := middleware.GetUserEmailFromContext(ctx)
	if email == "" {
		profile, err := u.profileRepo.FindByUserID(u.db.WithContext(ctx), userID)
		if err != nil {
			u.log.Warnf("Failed to find profile for user %s: %+v", userID, err)
			return nil, upstream("find profile", err)
		}
		if profile != nil {
			email = profile.Email
		}
	}

	checkoutURL, err := u.payments.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		PriceID:       priceID,
		CustomerEmail: email,
		UserID:        userID.String(),
	})
	if err != nil {
		u.log.Warnf("Failed to create checkout session for %s: %+v", userID, err)
		return nil, upstream("create checkout session", err)
	}

	return &dto.CheckoutResponse{URL: checkoutURL}, nil
}
