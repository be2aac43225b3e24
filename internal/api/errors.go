package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"example.com/logistics/services/odv/internal/lifecycle"
	"example.com/logistics/services/odv/internal/repository"
	"example.com/logistics/services/odv/internal/service"
)

// ErrorResponse defines the structure of an error response
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Indices []int  `json:"indices,omitempty"`
}

// Error represents an API error
type Error struct {
	Message    string
	StatusCode int
	Code       string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Common API errors
var (
	ErrInvalidRequest = &Error{Message: "Invalid request", StatusCode: http.StatusBadRequest, Code: "INVALID_REQUEST"}
	ErrNotFound       = &Error{Message: "Resource not found", StatusCode: http.StatusNotFound, Code: "NOT_FOUND"}
	ErrInternalServer = &Error{Message: "Internal server error", StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR"}
	ErrConflict       = &Error{Message: "Operation not allowed in the current status", StatusCode: http.StatusConflict, Code: "CONFLICT"}
)

// WriteError translates domain errors into HTTP responses: lifecycle
// precondition failures map to 422, illegal source states to 409, field
// validation to 400 and missing records to 404.
func WriteError(w http.ResponseWriter, err error) {
	var apiError *Error
	if errors.As(err, &apiError) {
		writeJSONResponse(w, apiError.StatusCode, ErrorResponse{
			Message: apiError.Message,
			Code:    apiError.Code,
		})
		return
	}

	var lifecycleError *lifecycle.Error
	if errors.As(err, &lifecycleError) {
		status := http.StatusUnprocessableEntity
		if lifecycleError.Code == lifecycle.CodeInvalidTransition {
			status = http.StatusConflict
		}
		writeJSONResponse(w, status, ErrorResponse{
			Message: lifecycleError.Mensaje,
			Code:    string(lifecycleError.Code),
			Indices: lifecycleError.Indices,
		})
		return
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		writeJSONResponse(w, http.StatusBadRequest, ErrorResponse{
			Message: validationErrors.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSONResponse(w, http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
			Code:    "NOT_FOUND",
		})
	case errors.Is(err, service.ErrServicioTerminal):
		writeJSONResponse(w, http.StatusConflict, ErrorResponse{
			Message: err.Error(),
			Code:    "SERVICIO_TERMINAL",
		})
	case errors.Is(err, service.ErrConfirmacionRequerida):
		writeJSONResponse(w, http.StatusConflict, ErrorResponse{
			Message: err.Error(),
			Code:    "CONFIRMACION_REQUERIDA",
		})
	case errors.Is(err, service.ErrSeguimientoInvalido),
		errors.Is(err, service.ErrPuntoNoExiste),
		errors.Is(err, service.ErrNavieraSoloPorteo),
		errors.Is(err, service.ErrDestinoInvalido),
		errors.Is(err, service.ErrRamplaDesconocida),
		errors.Is(err, service.ErrBatchInvalido),
		errors.Is(err, service.ErrCatalogoDesconocido):
		writeJSONResponse(w, http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
	default:
		// Log unknown errors
		logrus.WithError(err).Error("Unhandled error")
		writeJSONResponse(w, http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
			Code:    "INTERNAL_ERROR",
		})
	}
}

// NewValidationError creates a new validation error with a custom message
func NewValidationError(message string) *Error {
	return &Error{
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
	}
}
