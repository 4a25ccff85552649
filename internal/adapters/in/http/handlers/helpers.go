// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	usecase "drip/internal/application/usecase"
	itemdom "drip/internal/domain/item"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "method_not_allowed")
}

// writeUsecaseErr maps domain/usecase sentinels onto HTTP statuses.
func writeUsecaseErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, itemdom.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, itemdom.ErrPermissionDenied):
		writeErr(w, http.StatusForbidden, err.Error())
	case errors.Is(err, itemdom.ErrValidation),
		errors.Is(err, usecase.ErrNoImages),
		errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrItemInvalidArgument),
		errors.Is(err, usecase.ErrCheckoutInvalidArgument),
		errors.Is(err, usecase.ErrCartEmpty),
		errors.Is(err, usecase.ErrCartInvalidPrice):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrInsufficientFunds):
		writeErr(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, usecase.ErrTransferFailed),
		errors.Is(err, usecase.ErrClassification):
		writeErr(w, http.StatusBadGateway, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

// trailingID extracts {id} from paths like "/items/{id}".
func trailingID(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
