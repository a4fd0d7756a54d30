package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/usecase"
	"qrenoo/pkg/response"
)

type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
	errs         *ErrorWriter
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase, errs *ErrorWriter) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
		errs:         errs,
	}
}

// AssignSubscription leaves validation to the usecase, which checks admin rights first.
// An undecodable body is passed on empty so non-admins still get 403.
func (h *AdminHandler) AssignSubscription(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = dto.AssignSubscriptionRequest{}
	}

	profile, err := h.adminUsecase.AssignSubscription(r.Context(), &req)
	if err != nil {
		h.errs.Write(w, err, "Failed to assign subscription")
		return
	}

	response.Success(w, http.StatusOK, "Subscription assigned successfully", profile)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminUsecase.ListUsers(r.Context())
	if err != nil {
		h.errs.Write(w, err, "Failed to list users")
		return
	}

	response.JSON(w, http.StatusOK, users)
}

// ListLogs serves ?source=admin|stripe_webhook&limit=N
func (h *AdminHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid limit")
			return
		}
		limit = parsed
	}

	logs, err := h.adminUsecase.ListLogs(r.Context(), query.Get("source"), limit)
	if err != nil {
		h.errs.Write(w, err, "Failed to list logs")
		return
	}

	response.JSON(w, http.StatusOK, logs)
}
