package api

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/htol/libcat/logger"
	"github.com/htol/libcat/repo"
	"github.com/htol/libcat/validator"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope is the body of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := jsonAPI.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondWithData(w http.ResponseWriter, statusCode int, data any, message string) {
	respondJSON(w, statusCode, envelope{Success: true, Data: data, Message: message})
}

// respondWithError logs an error and sends an HTTP error response as JSON.
// Client errors are logged at warn level, the rest at error level.
func respondWithError(w http.ResponseWriter, message string, err error, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logger.Error(message, "error", err, "status", statusCode)
	} else {
		logger.Warn(message, "error", err, "status", statusCode)
	}
	respondJSON(w, statusCode, envelope{Error: message, Code: statusCode})
}

// respondWithValidationError sends a validation error response as JSON
func respondWithValidationError(w http.ResponseWriter, message string) {
	logger.Warn("Validation error", "message", message)
	respondJSON(w, http.StatusBadRequest, envelope{Error: message, Code: http.StatusBadRequest})
}

// respondWithServiceError maps a service error onto a status code. A
// missing record is a 404 on reads and a 400 on writes.
func respondWithServiceError(w http.ResponseWriter, err error, notFound int) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repo.ErrNotFound):
		status = notFound
	case errors.Is(err, validator.ErrValidation),
		errors.Is(err, repo.ErrNoFields),
		errors.Is(err, repo.ErrDuplicateISBN),
		errors.Is(err, repo.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, repo.ErrTransient):
		status = http.StatusServiceUnavailable
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	respondWithError(w, message, err, status)
}

// pathID parses the {id} path value. Non-numeric and non-positive ids are
// rejected with a 400.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithValidationError(w, "invalid id: "+r.PathValue("id"))
		return 0, false
	}
	if err := validator.ValidateID(id); err != nil {
		respondWithValidationError(w, err.Error())
		return 0, false
	}
	return id, true
}
