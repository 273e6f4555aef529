package common

import (
	"encoding/json"
	"net/http"
	"nfc-transactions-api/logger"

	"github.com/sirupsen/logrus"
)

// AppError is the single error shape crossing the handler boundary.
// Errors carries per-field validation reasons and is only set for 422s.
type AppError struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Err     error               `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError reports per-field validation failures as a 422.
func NewValidationError(fieldErrors map[string][]string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "The given data was invalid.",
		Errors:  fieldErrors,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
