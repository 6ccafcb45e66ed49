package controllers

import (
	"net/http"
	"time"

	"urbanhaven/errors"
	"urbanhaven/response"

	"github.com/gin-gonic/gin"
)

// ConvertDateToISOFormat parses the dd/mm/yyyy wire format
func ConvertDateToISOFormat(dateStr string) (time.Time, error) {
	parsedDate, err := time.Parse("02/01/2006", dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return parsedDate, nil
}

// handleServiceError maps an AppError to the HTTP envelope. Unknown errors
// become a generic 500 without leaking internals.
func handleServiceError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		response.ServerError(c)
		return
	}

	switch appErr.Code {
	case errors.ErrCodeNotFound, errors.ErrCodeDBNotFound:
		response.NotFound(c)
	case errors.ErrCodeForbidden:
		response.Forbidden(c)
	case errors.ErrCodeConflict, errors.ErrCodeAlreadyPaid, errors.ErrCodeDBDuplicate:
		response.Conflict(c, appErr.Message)
	case errors.ErrCodeInvalidInput, errors.ErrCodeValidation,
		errors.ErrCodeRequiredField, errors.ErrCodeInvalidFormat:
		response.BadRequest(c, appErr.Message)
	case errors.ErrCodeInvalidState:
		response.Error(c, http.StatusBadRequest, appErr.Message)
	case errors.ErrCodeInvalidSignature, errors.ErrCodePaymentFailed, errors.ErrCodeAmountMismatch:
		response.BadRequest(c, appErr.Message)
	case errors.ErrCodeUnauthorized, errors.ErrCodeInvalidToken, errors.ErrCodeMissingToken:
		response.Unauthorized(c)
	default:
		response.ServerError(c)
	}
}
