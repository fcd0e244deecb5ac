package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wangshuai-123/read-aloud/internal/logger"
	"github.com/wangshuai-123/read-aloud/internal/retry"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError is an error that already knows its status code. Errors of this
// type pass through to the response unchanged; everything else collapses
// to a 500.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func badRequest(format string, args ...any) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(message string) *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Message: message}
}

// writeError maps an error onto the response: explicit HTTP errors pass
// through, retry exhaustion surfaces all attempt causes, anything else is
// reported as unknown.
func writeError(w http.ResponseWriter, log *logger.Log, err error) {
	status := http.StatusInternalServerError
	message := "unknown error"

	var httpErr *HTTPError
	var retryErr *retry.Error
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Status
		message = httpErr.Message
	case errors.As(err, &retryErr):
		message = retryErr.Error()
	default:
		log.WithError(err).Error("request failed with unrecognized error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
