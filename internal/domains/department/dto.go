package department

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxNameLength = 200

// DepartmentRequest is the body of POST /api/departments and PUT /api/departments/:id.
type DepartmentRequest struct {
	Name string `json:"name"`
}

func (r DepartmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.By(notBlank),
			validation.RuneLength(1, MaxNameLength),
		),
	)
}

func notBlank(value interface{}) error {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "must not be blank")
	}
	return nil
}
