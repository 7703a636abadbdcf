package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/unclebandit/fellowship-comms/internal/errors"
)

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError maps application errors onto HTTP status codes.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}

func StatusFor(err error) int {
	var (
		validation *appErrors.ValidationError
		invalid    *appErrors.InvalidAudienceError
		notFound   *appErrors.CommunicationNotFoundError
		immutable  *appErrors.ImmutableCommunicationError
		apiErr     *appErrors.APIError
		netErr     *appErrors.NetworkError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &immutable):
		return http.StatusConflict
	case errors.As(err, &apiErr):
		return apiErr.Status
	case errors.As(err, &netErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// DecodeJSON rejects unknown fields so typos in the composer surface early.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return appErrors.NewValidation("", "invalid request body: "+err.Error())
	}
	return nil
}
