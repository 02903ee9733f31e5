package job

import (
	"errors"
	"net/http"
)

var (
	ErrJobNotFound  = errors.New("job not found")
	ErrJobInUse     = errors.New("job is still referenced by address book entries")
	ErrInvalidTitle = errors.New("job title is invalid")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrJobNotFound):
		return "JOB_NOT_FOUND"
	case errors.Is(err, ErrJobInUse):
		return "JOB_IN_USE"
	case errors.Is(err, ErrInvalidTitle):
		return "INVALID_TITLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrJobInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidTitle):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
