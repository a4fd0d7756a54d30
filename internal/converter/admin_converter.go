package converter

import (
	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/domain/entity"
)

// AdminUsersToResponse converts admin_users_view rows to the listing DTO
func AdminUsersToResponse(rows []entity.AdminUserView) *dto.AdminUserListResponse {
	users := make([]dto.AdminUserResponse, len(rows))
	for i, row := range rows {
		users[i] = dto.AdminUserResponse{
			ID:                 row.ID,
			Email:              row.Email,
			CreatedAt:          row.CreatedAt,
			ProfileID:          row.ProfileID,
			FullName:           row.FullName,
			Profession:         row.Profession,
			IsAdmin:            row.IsAdmin,
			PlanID:             row.PlanID,
			PlanName:           row.PlanName,
			PlanSlug:           row.PlanSlug,
			SubscriptionID:     row.SubscriptionID,
			SubscriptionStatus: row.SubscriptionStatus,
		}
	}
	return &dto.AdminUserListResponse{Users: users}
}

func LogToResponse(row entity.Log) dto.LogResponse {
	return dto.LogResponse{
		ID:        row.ID,
		Level:     row.Level,
		Source:    row.Source,
		Message:   row.Message,
		UserID:    row.UserID,
		Metadata:  row.Metadata,
		CreatedAt: row.CreatedAt,
	}
}

func LogsToResponse(rows []entity.Log) *dto.LogListResponse {
	logs := make([]dto.LogResponse, len(rows))
	for i, row := range rows {
		logs[i] = LogToResponse(row)
	}
	return &dto.LogListResponse{Logs: logs, Total: len(logs)}
}
