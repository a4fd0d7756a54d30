package handler

import (
	"encoding/json"
	"net/http"

	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/usecase"
	"qrenoo/pkg/response"
	"qrenoo/pkg/validator"
)

type ProfileHandler struct {
	profileUsecase     usecase.ProfileUsecase
	entitlementUsecase usecase.EntitlementUsecase
	validator          *validator.CustomValidator
	errs               *ErrorWriter
}

func NewProfileHandler(
	profileUsecase usecase.ProfileUsecase,
	entitlementUsecase usecase.EntitlementUsecase,
	validator *validator.CustomValidator,
	errs *ErrorWriter,
) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase:     profileUsecase,
		entitlementUsecase: entitlementUsecase,
		validator:          validator,
		errs:               errs,
	}
}

func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileUsecase.GetMyProfile(r.Context())
	if err != nil {
		h.errs.Write(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *ProfileHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.profileUsecase.UpdateMyProfile(r.Context(), &req)
	if err != nil {
		h.errs.Write(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", profile)
}

func (h *ProfileHandler) GetMyFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := h.entitlementUsecase.GetMyFeatures(r.Context())
	if err != nil {
		h.errs.Write(w, err, "Failed to get features")
		return
	}

	response.Success(w, http.StatusOK, "Features retrieved successfully", features)
}
