package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/services"
	"github.com/upb/spaces-control-plane/utils"
)

// HandleServiceError maps domain errors to HTTP responses. The response
// carries the error code and the domain message, never the wrapped cause.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var domainErr *services.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error("unhandled error type", zap.Error(err))
		if err := utils.WriteErrorCode(w, http.StatusInternalServerError,
			services.ErrUnexpected.Code, "An unexpected error occurred", nil); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}
		return
	}

	status := http.StatusInternalServerError
	message := domainErr.Message

	switch domainErr.Type {
	case services.ErrorTypeNotFound:
		status = http.StatusNotFound
	case services.ErrorTypeValidation:
		status = http.StatusBadRequest
	case services.ErrorTypeUnauthorized:
		status = http.StatusUnauthorized
	case services.ErrorTypeForbidden:
		status = http.StatusForbidden
	case services.ErrorTypeConflict:
		status = http.StatusConflict
	default:
		// Log internal errors but return generic message
		logger.Error("internal server error", zap.Error(err))
		message = "An internal error occurred"
	}

	if err := utils.WriteErrorCode(w, status, services.GetErrorCode(err), message, domainErr.Details); err != nil {
		logger.Error("failed to write error response", zap.Int("status", status), zap.Error(err))
	}

	logger.Debug("handled service error",
		zap.String("type", string(domainErr.Type)),
		zap.String("code", domainErr.Code),
		zap.Error(err))
}

// HandleValidationError handles validation errors from request parsing.
// The error's own message is kept so callers can tell a malformed body from
// a bad query or path parameter.
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		message := validationErr.Message
		if message == "" {
			message = "Validation failed"
		}
		var details map[string]interface{}
		if fields := utils.GetValidationFields(err); len(fields) > 0 {
			details = make(map[string]interface{}, len(fields))
			for k, v := range fields {
				details[k] = v
			}
		}
		if err := utils.WriteBadRequest(w, message, details); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	// Generic validation error
	if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}
