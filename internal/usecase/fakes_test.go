package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"qrenoo/internal/domain/entity"
	"qrenoo/internal/domain/gateway"
	"qrenoo/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestDB returns a gorm handle over sqlmock. Fake repositories ignore it;
// only transactions reach the mock.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// mondayMorning is the weekly schedule used across booking tests: Mondays 09:00-12:00 every 30 minutes.
func mondayMorning() entity.WeeklySchedule {
	var schedule entity.WeeklySchedule
	schedule[0] = &entity.DaySchedule{Open: "09:00", Close: "12:00", Interval: 30}
	return schedule
}

// Rendezvous

type fakeRendezvousRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]entity.Rendezvous
	err   error
}

func newFakeRendezvousRepo() *fakeRendezvousRepo {
	return &fakeRendezvousRepo{items: map[uuid.UUID]entity.Rendezvous{}}
}

func (r *fakeRendezvousRepo) Create(db *gorm.DB, rdv *entity.Rendezvous) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.items {
		if existing.ProID == rdv.ProID && existing.RdvDate.Equal(rdv.RdvDate) && existing.RdvTime == rdv.RdvTime {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_rendezvous_slot"}
		}
	}
	if rdv.ID == uuid.Nil {
		rdv.ID = uuid.New()
	}
	r.items[rdv.ID] = *rdv
	return nil
}

func (r *fakeRendezvousRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Rendezvous, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	rdv, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &rdv, nil
}

func (r *fakeRendezvousRepo) FindByPro(db *gorm.DB, proID uuid.UUID) ([]entity.Rendezvous, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []entity.Rendezvous
	for _, rdv := range r.items {
		if rdv.ProID == proID {
			list = append(list, rdv)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].RdvDate.Equal(list[j].RdvDate) {
			return list[i].RdvDate.Before(list[j].RdvDate)
		}
		return list[i].RdvTime < list[j].RdvTime
	})
	return list, nil
}

func (r *fakeRendezvousRepo) FindBookedTimes(db *gorm.DB, proID uuid.UUID, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var times []string
	for _, rdv := range r.items {
		if rdv.ProID == proID && rdv.RdvDate.Equal(date) {
			times = append(times, rdv.RdvTime)
		}
	}
	return times, nil
}

func (r *fakeRendezvousRepo) MarkValidated(db *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rdv, ok := r.items[id]
	if !ok {
		return 0, nil
	}
	rdv.IsValidated = true
	r.items[id] = rdv
	return 1, nil
}

func (r *fakeRendezvousRepo) DeleteExpired(db *gorm.DB, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, rdv := range r.items {
		if !rdv.IsValidated && rdv.CreatedAt.Before(cutoff) {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

// Profiles

type fakeProfileRepo struct {
	mu                  sync.Mutex
	profiles            []entity.Profile
	updates             int
	subscriptionLookups int
}

func (r *fakeProfileRepo) add(p entity.Profile) entity.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.UserID == uuid.Nil {
		p.UserID = uuid.New()
	}
	r.profiles = append(r.profiles, p)
	return p
}

func (r *fakeProfileRepo) find(match func(entity.Profile) bool) *entity.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if match(p) {
			found := p
			return &found
		}
	}
	return nil
}

func (r *fakeProfileRepo) filter(match func(entity.Profile) bool) []entity.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Profile
	for _, p := range r.profiles {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *fakeProfileRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Profile, error) {
	return r.find(func(p entity.Profile) bool { return p.ID == id }), nil
}

func (r *fakeProfileRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Profile, error) {
	return r.find(func(p entity.Profile) bool { return p.UserID == userID }), nil
}

func (r *fakeProfileRepo) FindByEmail(db *gorm.DB, email string) ([]entity.Profile, error) {
	return r.filter(func(p entity.Profile) bool { return strings.EqualFold(p.Email, email) }), nil
}

func (r *fakeProfileRepo) FindBySubscriptionID(db *gorm.DB, subscriptionID string) ([]entity.Profile, error) {
	r.mu.Lock()
	r.subscriptionLookups++
	r.mu.Unlock()
	return r.filter(func(p entity.Profile) bool {
		return p.SubscriptionID != nil && *p.SubscriptionID == subscriptionID
	}), nil
}

func (r *fakeProfileRepo) UpdateDetails(db *gorm.DB, profile *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.profiles {
		if r.profiles[i].ID == profile.ID {
			r.profiles[i].FullName = profile.FullName
			r.profiles[i].Profession = profile.Profession
			r.profiles[i].Bio = profile.Bio
			r.profiles[i].Phone = profile.Phone
			r.profiles[i].Address = profile.Address
			r.profiles[i].Schedule = profile.Schedule
			r.updates++
		}
	}
	return nil
}

func (r *fakeProfileRepo) UpsertDetails(db *gorm.DB, profile *entity.Profile) error {
	if existing := r.find(func(p entity.Profile) bool { return p.UserID == profile.UserID }); existing != nil {
		profile.ID = existing.ID
		return r.UpdateDetails(db, profile)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	r.profiles = append(r.profiles, *profile)
	r.updates++
	return nil
}

func (r *fakeProfileRepo) UpdateSubscription(db *gorm.DB, profileID uuid.UUID, sub repository.ProfileSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.profiles {
		if r.profiles[i].ID != profileID {
			continue
		}
		status := sub.SubscriptionStatus
		r.profiles[i].SubscriptionStatus = &status
		if sub.SubscriptionID != nil {
			id := *sub.SubscriptionID
			r.profiles[i].SubscriptionID = &id
		}
		if sub.PlanID != nil {
			planID := *sub.PlanID
			r.profiles[i].PlanID = &planID
		} else if sub.ClearPlan {
			r.profiles[i].PlanID = nil
		}
		r.updates++
	}
	return nil
}

func (r *fakeProfileRepo) UpsertSubscription(db *gorm.DB, profile *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	for i := range r.profiles {
		if r.profiles[i].UserID == profile.UserID {
			r.profiles[i].PlanID = profile.PlanID
			r.profiles[i].SubscriptionID = profile.SubscriptionID
			r.profiles[i].SubscriptionStatus = profile.SubscriptionStatus
			profile.ID = r.profiles[i].ID
			return nil
		}
	}
	profile.ID = uuid.New()
	r.profiles = append(r.profiles, *profile)
	return nil
}

// Plans, prices, users

type fakePlanRepo struct {
	plans    map[uuid.UUID]entity.Plan
	features map[uuid.UUID][]entity.PlanFeature
	lookups  int
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[uuid.UUID]entity.Plan{}, features: map[uuid.UUID][]entity.PlanFeature{}}
}

func (r *fakePlanRepo) addPlan(slug string, enabled map[string]bool) uuid.UUID {
	id := uuid.New()
	r.plans[id] = entity.Plan{ID: id, Slug: slug, Name: strings.ToUpper(slug)}
	for feature, on := range enabled {
		r.features[id] = append(r.features[id], entity.PlanFeature{PlanID: id, FeatureSlug: feature, Enabled: on})
	}
	return id
}

func (r *fakePlanRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

func (r *fakePlanRepo) FindFeatures(db *gorm.DB, planID uuid.UUID) ([]entity.PlanFeature, error) {
	r.lookups++
	return r.features[planID], nil
}

type fakePriceRepo struct {
	mappings map[string]uuid.UUID
}

func (r *fakePriceRepo) FindByPriceID(db *gorm.DB, priceID string) (*entity.StripePriceMapping, error) {
	planID, ok := r.mappings[priceID]
	if !ok {
		return nil, nil
	}
	return &entity.StripePriceMapping{PriceID: priceID, PlanID: planID}, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]entity.User{}}
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *fakeUserRepo) EnsureExists(db *gorm.DB, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		r.users[user.ID] = *user
	}
	return nil
}

type fakeUserViewRepo struct {
	rows []entity.AdminUserView
}

func (r *fakeUserViewRepo) FindAll(db *gorm.DB) ([]entity.AdminUserView, error) {
	return r.rows, nil
}

// Services

type loggedEntry struct {
	source   string
	reason   string
	action   string
	metadata entity.JSON
}

type fakeLogService struct {
	mu      sync.Mutex
	entries []loggedEntry
}

func (s *fakeLogService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, loggedEntry{source: entity.LogSourceAdmin, action: action, metadata: entity.JSON{"entity_id": entityID, "new_value": newValue}})
	return nil
}

func (s *fakeLogService) DeadLetter(ctx context.Context, tx *gorm.DB, source string, reason string, metadata entity.JSON) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, loggedEntry{source: source, reason: reason, metadata: metadata})
	return nil
}

func (s *fakeLogService) Recent(ctx context.Context, tx *gorm.DB, source string, limit int) ([]entity.Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []entity.Log
	for i := len(s.entries) - 1; i >= 0 && len(rows) < limit; i-- {
		e := s.entries[i]
		if e.source != source {
			continue
		}
		rows = append(rows, entity.Log{ID: int64(i + 1), Source: e.source, Message: e.reason, Metadata: e.metadata})
	}
	return rows, nil
}

type fakeFeatureCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]map[string]bool
	invalidated []uuid.UUID
	err         error
}

func newFakeFeatureCache() *fakeFeatureCache {
	return &fakeFeatureCache{entries: map[uuid.UUID]map[string]bool{}}
}

func (c *fakeFeatureCache) Get(ctx context.Context, userID uuid.UUID) (map[string]bool, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	features, ok := c.entries[userID]
	return features, ok, nil
}

func (c *fakeFeatureCache) Set(ctx context.Context, userID uuid.UUID, features map[string]bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[userID] = features
	return nil
}

func (c *fakeFeatureCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

// Gateways

type publishedEvent struct {
	routingKey string
	body       interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, body interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{routingKey: routingKey, body: body})
	return p.err
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.routingKey
	}
	return keys
}

type mockPaymentGateway struct {
	mock.Mock
}

func (m *mockPaymentGateway) ParseWebhook(payload []byte, signature string) (*gateway.SubscriptionEvent, error) {
	args := m.Called(payload, signature)
	event, _ := args.Get(0).(*gateway.SubscriptionEvent)
	return event, args.Error(1)
}

func (m *mockPaymentGateway) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	args := m.Called(customerID)
	return args.String(0), args.Error(1)
}

func (m *mockPaymentGateway) CreateCheckoutSession(ctx context.Context, params gateway.CheckoutParams) (string, error) {
	args := m.Called(params)
	return args.String(0), args.Error(1)
}
