// Package httputil provides shared HTTP response helpers so every
// handler emits the same envelope.
package httputil

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/logger"
	"vidtube/pkg/validator"
)

// Response is the success envelope. The payload always sits under "data".
type Response struct {
	Data any `json:"data"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a success response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(Response{Data: data}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError maps an application error to its HTTP status and writes
// the error envelope. Unknown errors become a generic 500 so internal
// details never leak to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var appErr *apperrors.AppError
	var valErr *validator.ValidationError
	status := apperrors.HTTPStatus(err)

	detail := ErrorDetail{
		Code:    "INTERNAL",
		Message: "internal server error",
	}

	switch {
	case stderrors.As(err, &valErr):
		detail.Code = "VALIDATION_FAILED"
		detail.Message = "request validation failed"
		detail.Fields = valErr.Fields()
	case stderrors.As(err, &appErr):
		detail.Code = appErr.Code
		if status < http.StatusInternalServerError {
			detail.Message = appErr.Message
		}
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err, "status", status)
	} else {
		log.Debug("request rejected", "error", err, "status", status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(ErrorResponse{Error: detail}); encErr != nil {
		log.Error("failed to encode error response", "error", encErr)
	}
}

// WriteValidationError writes a 400 with per-field validation messages.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	detail := ErrorDetail{
		Code:    "VALIDATION_FAILED",
		Message: "request validation failed",
	}
	var ve *validator.ValidationError
	if stderrors.As(err, &ve) {
		detail.Fields = ve.Fields()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if encErr := json.NewEncoder(w).Encode(ErrorResponse{Error: detail}); encErr != nil {
		logger.FromContext(r.Context()).Error("failed to encode error response", "error", encErr)
	}
}

// ParseUUID validates a path parameter as a UUID and returns its
// canonical form. An empty or malformed value yields an InvalidInput
// error the caller can pass straight to WriteError.
func ParseUUID(raw, field string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.InvalidInput("invalid " + field)
	}
	return id.String(), nil
}
