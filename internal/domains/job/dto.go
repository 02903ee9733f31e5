package job

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxTitleLength = 200

// JobRequest is the body of POST /api/jobs and PUT /api/jobs/:id.
type JobRequest struct {
	Title string `json:"title"`
}

func (r JobRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.By(notBlank),
			validation.RuneLength(1, MaxTitleLength),
		),
	)
}

func notBlank(value interface{}) error {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "must not be blank")
	}
	return nil
}
