package handler

import (
	"errors"
	"net/http"
	"strings"

	"qrenoo/internal/usecase"
	"qrenoo/pkg/response"

	"github.com/sirupsen/logrus"
)

// ErrorWriter maps usecase errors onto HTTP responses.
// Details of 5xx errors are only exposed outside production.
type ErrorWriter struct {
	log           *logrus.Logger
	exposeDetails bool
}

func NewErrorWriter(log *logrus.Logger, exposeDetails bool) *ErrorWriter {
	return &ErrorWriter{log: log, exposeDetails: exposeDetails}
}

func (e *ErrorWriter) Write(w http.ResponseWriter, err error, fallback string) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationError(w, verr.Fields)
	case errors.Is(err, usecase.ErrSignature):
		response.BadRequest(w, "Invalid signature")
	case errors.Is(err, usecase.ErrValidation):
		response.BadRequest(w, reason(err, usecase.ErrValidation))
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "")
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, reason(err, usecase.ErrForbidden))
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, reason(err, usecase.ErrNotFound))
	case errors.Is(err, usecase.ErrConflict):
		response.Conflict(w, reason(err, usecase.ErrConflict))
	default:
		e.log.Errorf("%s: %+v", fallback, err)
		var details interface{}
		if e.exposeDetails {
			details = err.Error()
		}
		response.Error(w, http.StatusInternalServerError, fallback, details)
	}
}

// reason strips the category prefix and capitalizes the rest for display
func reason(err, category error) string {
	msg := strings.TrimPrefix(err.Error(), category.Error()+": ")
	if msg == "" || msg == category.Error() {
		return ""
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
