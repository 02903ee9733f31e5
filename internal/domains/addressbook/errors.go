package addressbook

import (
	"errors"
	"net/http"
)

var (
	ErrEntryNotFound     = errors.New("address book entry not found")
	ErrInvalidReference  = errors.New("entry creation failed: invalid job ID or department ID")
	ErrPasswordRequired  = errors.New("password is required")
	ErrInvalidSearchDate = errors.New("invalid search date")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		return "ENTRY_NOT_FOUND"
	case errors.Is(err, ErrInvalidReference):
		return "INVALID_REFERENCE"
	case errors.Is(err, ErrPasswordRequired):
		return "PASSWORD_REQUIRED"
	case errors.Is(err, ErrInvalidSearchDate):
		return "INVALID_DATE"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrPasswordRequired),
		errors.Is(err, ErrInvalidSearchDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
