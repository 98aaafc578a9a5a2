package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/snibank/snibank-backend/internal/domain"
)

// All responses share the uniform envelope the original console expects:
// {success: bool, message?: string, ...data}. Errors additionally carry a
// meaningful HTTP status, but clients may rely on the envelope alone.

// respond writes the envelope with the given status code
func respond(w http.ResponseWriter, code int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondOK writes a success envelope
func respondOK(w http.ResponseWriter, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["success"] = true
	respond(w, http.StatusOK, payload)
}

// respondError writes a failure envelope with the domain error's message
func respondError(w http.ResponseWriter, err error) {
	respond(w, statusForError(err), map[string]any{
		"success": false,
		"message": err.Error(),
	})
}

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuthFailed):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransferNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientFundsAtApproval),
		errors.Is(err, domain.ErrAlreadyResolved),
		errors.Is(err, domain.ErrMinimumBalance),
		errors.Is(err, domain.ErrMinorWithdraw):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidAge),
		errors.Is(err, domain.ErrInvalidNationalID),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrMinimumDeposit),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
