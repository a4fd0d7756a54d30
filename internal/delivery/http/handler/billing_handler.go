package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"qrenoo/internal/delivery/dto"
	"qrenoo/internal/usecase"
	"qrenoo/pkg/response"
	"qrenoo/pkg/validator"
)

// Stripe caps webhook payloads well below this
const maxWebhookBodyBytes = int64(65536)

type BillingHandler struct {
	billingUsecase usecase.BillingUsecase
	validator      *validator.CustomValidator
	errs           *ErrorWriter
}

func NewBillingHandler(billingUsecase usecase.BillingUsecase, validator *validator.CustomValidator, errs *ErrorWriter) *BillingHandler {
	return &BillingHandler{
		billingUsecase: billingUsecase,
		validator:      validator,
		errs:           errs,
	}
}

// Webhook verifies the raw body against the Stripe-Signature header.
// Events that cannot be applied are still acknowledged with 200.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if _, err := h.billingUsecase.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		h.errs.Write(w, err, "Failed to process webhook")
		return
	}

	response.JSON(w, http.StatusOK, dto.WebhookResponse{Received: true})
}

func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.billingUsecase.CreateCheckoutSession(r.Context(), &req)
	if err != nil {
		h.errs.Write(w, err, "Failed to create checkout session")
		return
	}

	response.JSON(w, http.StatusOK, session)
}
