package usecase

import (
	"context"
	"testing"
	"time"

	"qrenoo/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAvailableSlots_ExcludesBookedTimes(t *testing.T) {
	db, _ := newTestDB(t)
	profiles := &fakeProfileRepo{}
	rdvRepo := newFakeRendezvousRepo()
	pro := profiles.add(entity.Profile{Schedule: mondayMorning()})
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	require.NoError(t, rdvRepo.Create(nil, &entity.Rendezvous{ProID: pro.ID, RdvDate: day, RdvTime: "09:30"}))
	require.NoError(t, rdvRepo.Create(nil, &entity.Rendezvous{ProID: pro.ID, RdvDate: day, RdvTime: "11:00", IsValidated: true}))
	require.NoError(t, rdvRepo.Create(nil, &entity.Rendezvous{ProID: uuid.New(), RdvDate: day, RdvTime: "10:00"}))

	uc := NewAvailabilityUsecase(db, quietLogger(), profiles, rdvRepo)

	resp, err := uc.GetAvailableSlots(context.Background(), pro.ID, "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", resp.Date)
	assert.Equal(t, []string{"09:00", "10:00", "10:30", "11:30"}, resp.Slots)
}

func TestGetAvailableSlots_ClosedDayIsEmpty(t *testing.T) {
	db, _ := newTestDB(t)
	profiles := &fakeProfileRepo{}
	pro := profiles.add(entity.Profile{Schedule: mondayMorning()})
	uc := NewAvailabilityUsecase(db, quietLogger(), profiles, newFakeRendezvousRepo())

	resp, err := uc.GetAvailableSlots(context.Background(), pro.ID, "2024-06-09")
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestGetAvailableSlots_Errors(t *testing.T) {
	db, _ := newTestDB(t)
	profiles := &fakeProfileRepo{}
	pro := profiles.add(entity.Profile{Schedule: mondayMorning()})
	uc := NewAvailabilityUsecase(db, quietLogger(), profiles, newFakeRendezvousRepo())

	_, err := uc.GetAvailableSlots(context.Background(), pro.ID, "tomorrow")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.GetAvailableSlots(context.Background(), uuid.New(), "2024-06-03")
	assert.ErrorIs(t, err, ErrProNotFound)
}

func TestGetPublicProfile(t *testing.T) {
	db, _ := newTestDB(t)
	profiles := &fakeProfileRepo{}
	pro := profiles.add(entity.Profile{FullName: "Dr. Amel", Profession: "Dentist", Schedule: mondayMorning()})
	uc := NewAvailabilityUsecase(db, quietLogger(), profiles, newFakeRendezvousRepo())

	resp, err := uc.GetPublicProfile(context.Background(), pro.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dentist", resp.Profession)
	assert.Equal(t, "09:00", resp.Schedule[0].Open)

	_, err = uc.GetPublicProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
