package devserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/bookfinder/internal/errors"
)

// DetailError is the error body the client parses: {"detail": ...}. Detail is a
// message string, or a list of {loc, msg} entries for request validation failures.
type DetailError struct {
	status int
	Detail any `json:"detail" doc:"Error message or list of validation failures"`
}

// FieldError is one entry of a validation failure list.
type FieldError struct {
	Loc string `json:"loc" doc:"Location of the offending value"`
	Msg string `json:"msg" doc:"What is wrong with it"`
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	if s, ok := e.Detail.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", e.Detail)
}

// GetStatus implements huma.StatusError.
func (e *DetailError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *DetailError) ContentType(_ string) string {
	return "application/json"
}

// registerErrorHandler makes huma render every error as a DetailError. Domain errors
// keep their message and map to their HTTP status.
func registerErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		var fields []FieldError
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &DetailError{status: domainErr.HTTPStatus(), Detail: domainErr.Message}
			}

			var detailer huma.ErrorDetailer
			if errors.As(err, &detailer) {
				d := detailer.ErrorDetail()
				fields = append(fields, FieldError{Loc: d.Location, Msg: d.Message})
			}
		}

		if len(fields) > 0 {
			return &DetailError{status: status, Detail: fields}
		}
		return &DetailError{status: status, Detail: message}
	}
}

// statusError converts a handler error into a huma.StatusError through the
// registered error handler, so domain errors keep their status.
func statusError(err error) error {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se
	}
	return huma.NewError(http.StatusInternalServerError, "unexpected error occurred", err)
}
