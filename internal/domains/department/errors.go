package department

import (
	"errors"
	"net/http"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentInUse    = errors.New("department is still referenced by address book entries")
	ErrInvalidName        = errors.New("department name is invalid")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrDepartmentNotFound):
		return "DEPARTMENT_NOT_FOUND"
	case errors.Is(err, ErrDepartmentInUse):
		return "DEPARTMENT_IN_USE"
	case errors.Is(err, ErrInvalidName):
		return "INVALID_NAME"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrDepartmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDepartmentInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
