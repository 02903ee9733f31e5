package addressbook

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"addressbook-backend/internal/domains/department"
	"addressbook-backend/internal/domains/job"
	"addressbook-backend/internal/shared/utils"
)

// ========================================
// REQUEST DTOs
// ========================================

// EntryRequest is the multipart form of POST /api/addressbook and PUT /api/addressbook/:id.
// Password and Photo may be left empty on update.
type EntryRequest struct {
	FullName     string `form:"fullName" json:"fullName"`
	JobID        int64  `form:"jobId" json:"jobId"`
	DepartmentID int64  `form:"departmentId" json:"departmentId"`
	MobileNumber string `form:"mobileNumber" json:"mobileNumber"`
	DateOfBirth  string `form:"dateOfBirth" json:"dateOfBirth"` // YYYY-MM-DD or RFC3339
	Address      string `form:"address" json:"address"`
	Email        string `form:"email" json:"email"`
	Password     string `form:"password" json:"password"`

	Photo *PhotoUpload `form:"-" json:"-"`
}

// PhotoUpload is an uploaded file, already opened by the handler.
type PhotoUpload struct {
	Filename string
	Content  io.Reader
}

func (r EntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.RuneLength(1, 200),
		),
		validation.Field(&r.MobileNumber,
			validation.Required.Error("mobile number is required"),
			validation.RuneLength(1, 32),
		),
		validation.Field(&r.DateOfBirth,
			validation.Required.Error("date of birth is required"),
			validation.By(pastDate),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.RuneLength(3, 255),
		),
		validation.Field(&r.Address, validation.RuneLength(0, 1000)),
		// bcrypt rejects anything past 72 bytes
		validation.Field(&r.Password, validation.Length(0, 72)),
	)
}

// ParsedDateOfBirth is only meaningful after Validate succeeded.
func (r EntryRequest) ParsedDateOfBirth() (time.Time, error) {
	return utils.ParseDate(r.DateOfBirth)
}

func pastDate(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := utils.ParseDate(s)
	if err != nil {
		return errors.New("must be a date in YYYY-MM-DD format")
	}
	if d.After(utils.DateOnly(time.Now())) {
		return errors.New("must not be in the future")
	}
	return nil
}

// NewSearchFilter builds a filter from the raw searchTerm, startDate and endDate query values.
func NewSearchFilter(term, startDate, endDate string) (SearchFilter, error) {
	start, err := utils.ParseOptionalDate(startDate)
	if err != nil {
		return SearchFilter{}, fmt.Errorf("%w: startDate %q", ErrInvalidSearchDate, startDate)
	}
	end, err := utils.ParseOptionalDate(endDate)
	if err != nil {
		return SearchFilter{}, fmt.Errorf("%w: endDate %q", ErrInvalidSearchDate, endDate)
	}
	return SearchFilter{Term: strings.TrimSpace(term), StartDate: start, EndDate: end}, nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type EntryResponse struct {
	ID           int64                  `json:"id"`
	FullName     string                 `json:"fullName"`
	JobID        int64                  `json:"jobId"`
	Job          *job.Job               `json:"job"`
	DepartmentID int64                  `json:"departmentId"`
	Department   *department.Department `json:"department"`
	MobileNumber string                 `json:"mobileNumber"`
	DateOfBirth  string                 `json:"dateOfBirth"`
	Address      *string                `json:"address"`
	Email        string                 `json:"email"`
	PhotoPath    *string                `json:"photoPath"`
	PhotoURL     string                 `json:"photoUrl,omitempty"`
	Age          int                    `json:"age"`
}

func (e *Entry) ToResponse() EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		FullName:     e.FullName,
		JobID:        e.JobID,
		Job:          e.Job,
		DepartmentID: e.DepartmentID,
		Department:   e.Department,
		MobileNumber: e.MobileNumber,
		DateOfBirth:  e.DateOfBirth.Format(utils.DateLayout),
		Address:      e.Address,
		Email:        e.Email,
		PhotoPath:    e.PhotoPath,
		PhotoURL:     e.PhotoURL,
		Age:          e.Age,
	}
}

// ToResponses never returns nil so an empty list encodes as [].
func ToResponses(entries []Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ToResponse())
	}
	return out
}
