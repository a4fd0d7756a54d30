package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateRendezvousRequest struct {
	ClientName  string `json:"client_name" validate:"required,max=255"`
	ClientPhone string `json:"client_phone" validate:"required,max=50"`
	Date        string `json:"rdv_date" validate:"required,date"`  // Format: YYYY-MM-DD
	Time        string `json:"rdv_time" validate:"required,clock"` // Format: HH:MM
}

type VerifyRendezvousRequest struct {
	ID   uuid.UUID `json:"id" validate:"required"`
	Code Code      `json:"code" validate:"required"`
}

// Code accepts a validation code sent either as a JSON string or a JSON number
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("code must be a string or a number")
	}
	*c = Code(n.String())
	return nil
}

// Response DTOs

type RendezvousResponse struct {
	ID          uuid.UUID `json:"id"`
	ProID       uuid.UUID `json:"pro_id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	Date        string    `json:"rdv_date"`
	Time        string    `json:"rdv_time"`
	IsValidated bool      `json:"is_validated"`
	CreatedAt   time.Time `json:"created_at"`
}

type RendezvousListResponse struct {
	Rendezvous []RendezvousResponse `json:"rendezvous"`
	Total      int                  `json:"total"`
}

type SlotsResponse struct {
	ProID uuid.UUID `json:"pro_id"`
	Date  string    `json:"date"`
	Slots []string  `json:"slots"`
}

type VerifyRendezvousResponse struct {
	Success bool `json:"success"`
}

// SweepResult reports one expiry sweep
type SweepResult struct {
	Deleted int64     `json:"deleted"`
	Cutoff  time.Time `json:"cutoff"`
}
