package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"qrenoo/internal/converter"
	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/delivery/http/middleware"
	"qrenoo/internal/domain/entity"
	"qrenoo/internal/domain/gateway"
	"qrenoo/internal/domain/repository"
	"qrenoo/internal/infrastructure/messaging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const rendezvousSlotIndex = "idx_rendezvous_slot"

var (
	ErrProNotFound        = fmt.Errorf("%w: professional not found", ErrNotFound)
	ErrProfileNotFound    = fmt.Errorf("%w: profile not found", ErrNotFound)
	ErrSlotUnavailable    = fmt.Errorf("%w: requested time is not an available slot", ErrValidation)
	ErrSlotInPast         = fmt.Errorf("%w: cannot book a past date", ErrValidation)
	ErrSlotTaken          = fmt.Errorf("%w: slot already booked", ErrConflict)
	ErrRendezvousNotFound = fmt.Errorf("%w: rendezvous not found", ErrValidation)
	ErrInvalidCode        = fmt.Errorf("%w: invalid validation code", ErrValidation)
)

// RendezvousEvent is the message published on each lifecycle transition.
// The validation code is only carried by the requested event, for delivery to the client.
type RendezvousEvent struct {
	RendezvousID   uuid.UUID `json:"rendezvous_id"`
	ProID          uuid.UUID `json:"pro_id"`
	ProName        string    `json:"pro_name,omitempty"`
	ClientName     string    `json:"client_name"`
	ClientPhone    string    `json:"client_phone"`
	Date           string    `json:"rdv_date"`
	Time           string    `json:"rdv_time"`
	ValidationCode string    `json:"validation_code,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type SweepEvent struct {
	Deleted    int64     `json:"deleted"`
	Cutoff     time.Time `json:"cutoff"`
	OccurredAt time.Time `json:"occurred_at"`
}

type BookingUsecase interface {
	CreateRendezvous(ctx context.Context, proID uuid.UUID, req *dto.CreateRendezvousRequest) (*dto.RendezvousResponse, error)
	VerifyRendezvous(ctx context.Context, req *dto.VerifyRendezvousRequest) (*dto.VerifyRendezvousResponse, error)
	SweepExpired(ctx context.Context) (*dto.SweepResult, error)
	GetMyRendezvous(ctx context.Context) (*dto.RendezvousListResponse, error)
}

type bookingUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	rdvRepo     repository.RendezvousRepository
	profileRepo repository.ProfileRepository
	publisher   gateway.EventPublisher
	pendingTTL  time.Duration

	now          func() time.Time
	generateCode func() (string, error)
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	rdvRepo repository.RendezvousRepository,
	profileRepo repository.ProfileRepository,
	publisher gateway.EventPublisher,
	pendingTTL time.Duration,
) BookingUsecase {
	return &bookingUsecase{
		db:           db,
		log:          log,
		rdvRepo:      rdvRepo,
		profileRepo:  profileRepo,
		publisher:    publisher,
		pendingTTL:   pendingTTL,
		now:          time.Now,
		generateCode: generateValidationCode,
	}
}

// CreateRendezvous books a pending slot.
//
// Flow:
// 1. Reject missing fields and malformed date/time
// 2. Check the slot against the professional's weekly schedule
// 3. Insert with a fresh validation code; the slot unique index rejects double bookings
// 4. Publish rendezvous.requested so the notifier can deliver the code
func (u *bookingUsecase) CreateRendezvous(ctx context.Context, proID uuid.UUID, req *dto.CreateRendezvousRequest) (*dto.RendezvousResponse, error) {
	name := strings.TrimSpace(req.ClientName)
	phone := strings.TrimSpace(req.ClientPhone)

	fields := map[string]string{}
	if proID == uuid.Nil {
		fields["pro_id"] = "pro_id is required"
	}
	if name == "" {
		fields["client_name"] = "client_name is required"
	}
	if phone == "" {
		fields["client_phone"] = "client_phone is required"
	}

	date, err := time.Parse(entity.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		fields["rdv_date"] = "rdv_date must be a date formatted as YYYY-MM-DD"
	}
	minutes, err := entity.ParseClock(req.Time)
	if err != nil {
		fields["rdv_time"] = "rdv_time must be a time formatted as HH:MM"
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}
	clock := entity.FormatClock(minutes)

	now := u.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, ErrSlotInPast
	}

	pro, err := u.profileRepo.FindByID(u.db.WithContext(ctx), proID)
	if err != nil {
		u.log.Warnf("Failed to find professional %s: %+v", proID, err)
		return nil, upstream("find professional", err)
	}
	if pro == nil {
		return nil, ErrProNotFound
	}

	if !pro.Schedule.IsSlotValid(date, clock) {
		return nil, ErrSlotUnavailable
	}

	code, err := u.generateCode()
	if err != nil {
		u.log.Errorf("Failed to generate validation code: %+v", err)
		return nil, upstream("generate validation code", err)
	}

	rdv := &entity.Rendezvous{
		ProID:          proID,
		ClientName:     name,
		ClientPhone:    phone,
		RdvDate:        date,
		RdvTime:        clock,
		ValidationCode: code,
		IsValidated:    false,
		CreatedAt:      now,
	}

	if err := u.rdvRepo.Create(u.db.WithContext(ctx), rdv); err != nil {
		if isDuplicateKeyError(err, rendezvousSlotIndex) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to create rendezvous: %+v", err)
		return nil, upstream("create rendezvous", err)
	}

	event := u.eventFor(rdv, pro)
	event.ValidationCode = code
	u.publish(ctx, messaging.RoutingRendezvousRequested, event)

	return converter.RendezvousToResponse(rdv), nil
}

// VerifyRendezvous confirms a pending rendezvous when the code matches.
// A mismatch leaves the record untouched.
func (u *bookingUsecase) VerifyRendezvous(ctx context.Context, req *dto.VerifyRendezvousRequest) (*dto.VerifyRendezvousResponse, error) {
	code := strings.TrimSpace(string(req.Code))
	if req.ID == uuid.Nil || code == "" {
		return nil, NewValidationError(map[string]string{"code": "id and code are required"})
	}

	rdv, err := u.rdvRepo.FindByID(u.db.WithContext(ctx), req.ID)
	if err != nil {
		u.log.Warnf("Failed to find rendezvous %s: %+v", req.ID, err)
		return nil, upstream("find rendezvous", err)
	}
	if rdv == nil {
		return nil, ErrRendezvousNotFound
	}

	if !rdv.MatchesCode(code) {
		u.log.Infof("Rejected validation code for rendezvous %s", rdv.ID)
		return nil, ErrInvalidCode
	}

	if rdv.IsValidated {
		return &dto.VerifyRendezvousResponse{Success: true}, nil
	}

	// past the TTL but not swept yet
	if rdv.IsExpired(u.now(), u.pendingTTL) {
		u.log.Infof("Rejected confirmation of expired rendezvous %s", rdv.ID)
		return nil, ErrRendezvousNotFound
	}

	affected, err := u.rdvRepo.MarkValidated(u.db.WithContext(ctx), rdv.ID)
	if err != nil {
		u.log.Warnf("Failed to validate rendezvous %s: %+v", rdv.ID, err)
		return nil, upstream("validate rendezvous", err)
	}
	if affected == 0 {
		// swept between the read and the update
		return nil, ErrRendezvousNotFound
	}
	rdv.Validate()

	u.publish(ctx, messaging.RoutingRendezvousConfirmed, u.eventFor(rdv, nil))

	return &dto.VerifyRendezvousResponse{Success: true}, nil
}

// SweepExpired deletes every unvalidated rendezvous older than the pending TTL.
// It is a delete-by-predicate and safe to run concurrently.
func (u *bookingUsecase) SweepExpired(ctx context.Context) (*dto.SweepResult, error) {
	now := u.now()
	cutoff := now.Add(-u.pendingTTL)

	deleted, err := u.rdvRepo.DeleteExpired(u.db.WithContext(ctx), cutoff)
	if err != nil {
		u.log.Warnf("Failed to sweep expired rendezvous: %+v", err)
		return nil, upstream("sweep expired rendezvous", err)
	}

	u.log.WithFields(logrus.Fields{
		"deleted": deleted,
		"cutoff":  cutoff,
	}).Info("Expired rendezvous swept")

	if deleted > 0 {
		u.publish(ctx, messaging.RoutingRendezvousExpired, SweepEvent{
			Deleted:    deleted,
			Cutoff:     cutoff,
			OccurredAt: now,
		})
	}

	return &dto.SweepResult{Deleted: deleted, Cutoff: cutoff}, nil
}

// GetMyRendezvous lists the caller's appointments
func (u *bookingUsecase) GetMyRendezvous(ctx context.Context) (*dto.RendezvousListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	pro, err := u.profileRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find profile for user %s: %+v", userID, err)
		return nil, upstream("find profile", err)
	}
	if pro == nil {
		return nil, ErrProfileNotFound
	}

	list, err := u.rdvRepo.FindByPro(u.db.WithContext(ctx), pro.ID)
	if err != nil {
		u.log.Warnf("Failed to list rendezvous for %s: %+v", pro.ID, err)
		return nil, upstream("list rendezvous", err)
	}

	return converter.RendezvousToResponses(list), nil
}

func (u *bookingUsecase) eventFor(rdv *entity.Rendezvous, pro *entity.Profile) RendezvousEvent {
	event := RendezvousEvent{
		RendezvousID: rdv.ID,
		ProID:        rdv.ProID,
		ClientName:   rdv.ClientName,
		ClientPhone:  rdv.ClientPhone,
		Date:         rdv.RdvDate.Format(entity.DateLayout),
		Time:         rdv.RdvTime,
		OccurredAt:   u.now(),
	}
	if pro != nil {
		event.ProName = pro.FullName
	}
	return event
}

// publish never fails the caller; the notifier is best effort
func (u *bookingUsecase) publish(ctx context.Context, routingKey string, body interface{}) {
	if err := u.publisher.Publish(ctx, routingKey, body); err != nil {
		u.log.Warnf("Failed to publish %s: %+v", routingKey, err)
	}
}

// generateValidationCode returns a random 4-digit code in [1000, 9999]
func generateValidationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", 1000+n.Int64()), nil
}
