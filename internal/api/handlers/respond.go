package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/andklim/contacts-be/internal/apperr"
)

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to its HTTP status and serves the stable
// machine code plus human message. Uncoded errors become a generic 500.
func writeError(w http.ResponseWriter, err error) {
	code := apperr.Code(err)
	if code == "" {
		code = "INTERNAL_ERROR"
	}
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{
		"error":   code,
		"message": apperr.Message(err),
	})
}

// writeBadRequest serves a 400 with the BAD_REQUEST code.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error":   apperr.CodeBadRequest,
		"message": message,
	})
}

// writeMessage serves a 200 with a plain message payload.
func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}
