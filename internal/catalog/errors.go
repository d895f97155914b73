package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	domainerrors "github.com/listenupapp/bookfinder/internal/errors"
)

// Sentinel errors for catalog operations.
var (
	ErrNotFound         = errors.New("catalog: not found")
	ErrBadRequest       = errors.New("catalog: bad request")
	ErrRateLimited      = errors.New("catalog: rate limited by server")
	ErrServer           = errors.New("catalog: server error")
	ErrUnexpectedStatus = errors.New("catalog: unexpected status")
	ErrTransport        = errors.New("catalog: transport failure")
	ErrTimeout          = errors.New("catalog: request timed out")
	ErrInvalidISBN      = errors.New("catalog: invalid isbn13")
	ErrDecode           = errors.New("catalog: malformed response")
)

// Error is the single failure a catalog call surfaces. Error() is the human-readable
// message shown to the user.
type Error struct {
	Op     string // listBooks, getBook, search, recommend, categories, probeCover
	Path   string
	Status int    // 0 when no response arrived
	Detail string // backend "detail" field, if any
	Err    error
	cause  error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case errors.Is(e.Err, ErrInvalidISBN):
		return "ISBN13 must be a 13-digit number string."
	case e.Status != 0:
		return fmt.Sprintf("Request failed with status code %d (%s)", e.Status, http.StatusText(e.Status))
	case errors.Is(e.Err, ErrTimeout):
		return "Request timed out"
	case errors.Is(e.Err, ErrDecode):
		return "Received a malformed response from the catalog service"
	case e.cause != nil:
		return "Network error: " + e.cause.Error()
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode maps the failure onto a domain error code.
func (e *Error) ErrorCode() domainerrors.Code {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return domainerrors.CodeNotFound
	case errors.Is(e.Err, ErrBadRequest), errors.Is(e.Err, ErrInvalidISBN):
		return domainerrors.CodeValidation
	case errors.Is(e.Err, ErrRateLimited), e.Status == http.StatusServiceUnavailable:
		return domainerrors.CodeUnavailable
	case errors.Is(e.Err, ErrDecode):
		return domainerrors.CodeInternal
	default:
		return domainerrors.CodeTransport
	}
}

// Is matches domain error sentinels by code, so errors.Is(err, errors.ErrTransport)
// holds for a network failure.
func (e *Error) Is(target error) bool {
	var t *domainerrors.Error
	if errors.As(target, &t) {
		return t.Code == e.ErrorCode()
	}
	return false
}

// statusError maps a non-2xx status to its sentinel.
func statusError(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrBadRequest
	case status >= 500:
		return ErrServer
	default:
		return ErrUnexpectedStatus
	}
}

// transportError classifies a failure that happened before any response arrived.
func transportError(path string, err error) *Error {
	sentinel := ErrTransport
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		sentinel = ErrTimeout
	}
	return &Error{Path: path, Err: sentinel, cause: err}
}

// wrapError stamps op onto err, creating an *Error if err is not one already.
func wrapError(op, path string, err error) error {
	var ce *Error
	if errors.As(err, &ce) {
		ce.Op = op
		return ce
	}
	return &Error{Op: op, Path: path, Err: err}
}
