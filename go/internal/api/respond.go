// Package api serves the JSON request surface used by the draft board client.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/alexmeckes/draftagent/go/internal/draftsource"
	"github.com/alexmeckes/draftagent/go/internal/recommendation"
	"github.com/alexmeckes/draftagent/go/internal/users"
)

// UserIDHeader carries the caller's local user id.
const UserIDHeader = "X-User-Id"

var (
	errNotAuthenticated = errors.New("not authenticated")
	errBadRequestBody   = errors.New("invalid request body")
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, draftsource.ErrDraftNotFound),
		errors.Is(err, draftsource.ErrPlayerNotFound),
		errors.Is(err, draftsource.ErrUserNotFound),
		errors.Is(err, draftsource.ErrLeagueNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequestBody),
		errors.Is(err, users.ErrUsernameRequired),
		errors.Is(err, recommendation.ErrPlayerIDRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError replies with the error text for client errors and with
// fallback for everything else, which is logged instead.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg(fallback)
		msg = fallback
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody reads an optional JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errors.Join(errBadRequestBody, err)
}

func requireUserID(r *http.Request) (string, error) {
	id := r.Header.Get(UserIDHeader)
	if id == "" {
		return "", errNotAuthenticated
	}
	return id, nil
}
