package handler

import (
	"net/http"

	"qrenoo/internal/usecase"
	"qrenoo/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ProHandler serves the public booking page data
type ProHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	errs                *ErrorWriter
}

func NewProHandler(availabilityUsecase usecase.AvailabilityUsecase, errs *ErrorWriter) *ProHandler {
	return &ProHandler{
		availabilityUsecase: availabilityUsecase,
		errs:                errs,
	}
}

func (h *ProHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	proID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid professional ID")
		return
	}

	profile, err := h.availabilityUsecase.GetPublicProfile(r.Context(), proID)
	if err != nil {
		h.errs.Write(w, err, "Failed to get professional")
		return
	}

	response.Success(w, http.StatusOK, "Professional retrieved successfully", profile)
}

func (h *ProHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	proID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid professional ID")
		return
	}

	slots, err := h.availabilityUsecase.GetAvailableSlots(r.Context(), proID, r.URL.Query().Get("date"))
	if err != nil {
		h.errs.Write(w, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}
