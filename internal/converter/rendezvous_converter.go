package converter

import (
	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/domain/entity"
)

// RendezvousToResponse converts a Rendezvous entity to RendezvousResponse DTO
func RendezvousToResponse(rdv *entity.Rendezvous) *dto.RendezvousResponse {
	if rdv == nil {
		return nil
	}

	return &dto.RendezvousResponse{
		ID:          rdv.ID,
		ProID:       rdv.ProID,
		ClientName:  rdv.ClientName,
		ClientPhone: rdv.ClientPhone,
		Date:        rdv.RdvDate.Format(entity.DateLayout),
		Time:        rdv.RdvTime,
		IsValidated: rdv.IsValidated,
		CreatedAt:   rdv.CreatedAt,
	}
}

// RendezvousToResponses converts a slice of Rendezvous entities to a list DTO
func RendezvousToResponses(list []entity.Rendezvous) *dto.RendezvousListResponse {
	responses := make([]dto.RendezvousResponse, len(list))
	for i := range list {
		responses[i] = *RendezvousToResponse(&list[i])
	}
	return &dto.RendezvousListResponse{
		Rendezvous: responses,
		Total:      len(responses),
	}
}

// RendezvousCSVHeader is the header row of the appointment export
var RendezvousCSVHeader = []string{"id", "date", "time", "client_name", "client_phone", "validated", "created_at"}

// RendezvousToCSVRows flattens appointments for the export
func RendezvousToCSVRows(list []dto.RendezvousResponse) [][]string {
	rows := make([][]string, 0, len(list))
	for _, rdv := range list {
		validated := "no"
		if rdv.IsValidated {
			validated = "yes"
		}
		rows = append(rows, []string{
			rdv.ID.String(),
			rdv.Date,
			rdv.Time,
			rdv.ClientName,
			rdv.ClientPhone,
			validated,
			rdv.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return rows
}
