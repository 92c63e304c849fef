package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/userkeeper/internal/model"
)

const (
	msgMalformedBody = "Request body must be valid JSON"
	msgBodyTooLarge  = "Request body is too large"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a JSON object into target. Any decoding failure,
// including an empty or oversized body, is a validation error on "body".
func decodeJSON(r *http.Request, target any) error {
	err := json.NewDecoder(r.Body).Decode(target)
	if err == nil {
		return nil
	}

	message := msgMalformedBody
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		message = msgBodyTooLarge
	}
	verr := model.NewValidationError([]model.Violation{{Field: "body", Message: message}})
	verr.Err = err
	return verr
}
