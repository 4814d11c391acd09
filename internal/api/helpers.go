package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "sentry-taiga/internal/common/errors"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// writeDomainError maps a service error onto an HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	stdErr := apperrors.Normalize(err)
	body := errorBody{Code: string(stdErr.Code), Message: stdErr.Message}
	if stdErr.Code != apperrors.ErrCodeIntegration && stdErr.Code != apperrors.ErrCodeInternal {
		body.Details = stdErr.Details
	}
	writeJSON(w, statusFor(stdErr.Code), errorResponse{Error: body})
}

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeUnknownPlugin:
		return http.StatusNotFound
	case apperrors.ErrCodePluginNotConfigured:
		return http.StatusConflict
	case apperrors.ErrCodeValidationFailed, apperrors.ErrCodeInputParsingFailed:
		return http.StatusBadRequest
	case apperrors.ErrCodeIntegration:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeOptionsUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// readBody decodes a JSON object body into a generic map for schema
// validation.
func readBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, string(apperrors.ErrCodeInputParsingFailed), "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeInputParsingFailed), "invalid request body")
		}
		return nil, false
	}
	if body == nil {
		body = map[string]interface{}{}
	}
	return body, true
}

func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
