package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"umbrella-customizer/logger"
	"umbrella-customizer/repository"
	"umbrella-customizer/service"
)

// writeJSON encodes payload with the given status code
func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error(err, "❌ failed to encode response")
	}
}

// statusFor maps an error from the service layer to an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidType), errors.Is(err, service.ErrUnknownColor):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrSessionNotFound), errors.Is(err, service.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, service.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the status for err and the message shown to the user
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(err, "❌ request failed", "status", status)
	} else {
		log.Warn("⚠️  request rejected", "status", status, "error", err.Error())
	}
	writeJSON(w, log, status, map[string]interface{}{
		"status":  "error",
		"error":   err.Error(),
		"message": service.UserMessage(err),
	})
}
