package converter

import (
	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/domain/entity"
)

// ProfileToResponse converts a Profile entity to ProfileResponse DTO
func ProfileToResponse(profile *entity.Profile) *dto.ProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProfileResponse{
		ID:                 profile.ID,
		UserID:             profile.UserID,
		Email:              profile.Email,
		FullName:           profile.FullName,
		Profession:         profile.Profession,
		Bio:                profile.Bio,
		Phone:              profile.Phone,
		Address:            profile.Address,
		Schedule:           profile.Schedule,
		PlanID:             profile.PlanID,
		SubscriptionID:     profile.SubscriptionID,
		SubscriptionStatus: profile.SubscriptionStatus,
		IsAdmin:            profile.IsAdmin,
		CreatedAt:          profile.CreatedAt,
		UpdatedAt:          profile.UpdatedAt,
	}
}

// ProfileToPublicResponse keeps only what a booking page shows
func ProfileToPublicResponse(profile *entity.Profile) *dto.PublicProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.PublicProfileResponse{
		ID:         profile.ID,
		FullName:   profile.FullName,
		Profession: profile.Profession,
		Bio:        profile.Bio,
		Phone:      profile.Phone,
		Address:    profile.Address,
		Schedule:   profile.Schedule,
	}
}

// ScheduleFromRequest maps request days onto ISO weekday slots; missing or null days are closed
func ScheduleFromRequest(days []*dto.DayScheduleRequest) entity.WeeklySchedule {
	var schedule entity.WeeklySchedule
	for i := 0; i < len(days) && i < len(schedule); i++ {
		if days[i] == nil {
			continue
		}
		schedule[i] = &entity.DaySchedule{
			Open:     days[i].Open,
			Close:    days[i].Close,
			Interval: days[i].Interval,
		}
	}
	return schedule
}
