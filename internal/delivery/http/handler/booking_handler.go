package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"qrenoo/internal/converter"
	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/usecase"
	"qrenoo/pkg/response"
	"qrenoo/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxFormMemory = 32 << 10

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
	errs           *ErrorWriter
	publicURL      string
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator, errs *ErrorWriter, publicURL string) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
		errs:           errs,
		publicURL:      strings.TrimRight(publicURL, "/"),
	}
}

// CreateRendezvous accepts the public booking form or a JSON body.
// Form posts are answered with 303 to the confirmation page, JSON with 201.
func (h *BookingHandler) CreateRendezvous(w http.ResponseWriter, r *http.Request) {
	proID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid professional ID")
		return
	}

	var req dto.CreateRendezvousRequest
	isForm := isFormRequest(r)
	if isForm {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			response.BadRequest(w, "Invalid form body")
			return
		}
		req = dto.CreateRendezvousRequest{
			ClientName:  strings.TrimSpace(r.FormValue("client_name")),
			ClientPhone: strings.TrimSpace(r.FormValue("client_phone")),
			Date:        strings.TrimSpace(r.FormValue("rdv_date")),
			Time:        strings.TrimSpace(r.FormValue("rdv_time")),
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rdv, err := h.bookingUsecase.CreateRendezvous(r.Context(), proID, &req)
	if err != nil {
		h.errs.Write(w, err, "Failed to create rendezvous")
		return
	}

	if isForm {
		response.Redirect(w, fmt.Sprintf("%s/rdv/%s/confirm", h.publicURL, rdv.ID), "Rendezvous created, confirm it with the code you received")
		return
	}

	response.Success(w, http.StatusCreated, "Rendezvous created successfully", rdv)
}

func (h *BookingHandler) VerifyRendezvous(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyRendezvousRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.bookingUsecase.VerifyRendezvous(r.Context(), &req)
	if err != nil {
		h.errs.Write(w, err, "Failed to verify rendezvous")
		return
	}

	response.JSON(w, http.StatusOK, result)
}

func (h *BookingHandler) GetMyRendezvous(w http.ResponseWriter, r *http.Request) {
	list, err := h.bookingUsecase.GetMyRendezvous(r.Context())
	if err != nil {
		h.errs.Write(w, err, "Failed to get rendezvous")
		return
	}

	response.Success(w, http.StatusOK, "Rendezvous retrieved successfully", list)
}

// ExportMyRendezvous streams the caller's rendezvous as CSV. Gated by the export feature.
func (h *BookingHandler) ExportMyRendezvous(w http.ResponseWriter, r *http.Request) {
	list, err := h.bookingUsecase.GetMyRendezvous(r.Context())
	if err != nil {
		h.errs.Write(w, err, "Failed to export rendezvous")
		return
	}

	filename := fmt.Sprintf("rendezvous-%s.csv", time.Now().UTC().Format("20060102"))
	if err := response.CSV(w, filename, converter.RendezvousCSVHeader, converter.RendezvousToCSVRows(list.Rendezvous)); err != nil {
		h.errs.log.Warnf("Failed to write rendezvous export: %+v", err)
	}
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}
