package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cognicore/trendops/pkg/trendops/internalerr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.log.Error().Err(err).Msg("failed to write JSON response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Int("status", status).Msg("request failed")
	}
	s.respondJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, internalerr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, internalerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internalerr.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, internalerr.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, internalerr.ErrInvalidConfig), errors.Is(err, internalerr.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
