package addressbook

import (
	"time"

	"addressbook-backend/internal/domains/department"
	"addressbook-backend/internal/domains/job"
)

// Entry is one person in the address book.
type Entry struct {
	ID           int64
	FullName     string
	JobID        int64
	Job          *job.Job
	DepartmentID int64
	Department   *department.Department
	MobileNumber string
	DateOfBirth  time.Time // calendar day, UTC midnight
	Address      *string
	Email        string
	PasswordHash string `json:"-"`
	PhotoPath    *string // stored photo name, relative to photo storage
	Age          int

	// PhotoURL is derived from PhotoPath when the entry leaves the service.
	PhotoURL string
}

// HasPhoto reports whether a photo file belongs to the entry.
func (e *Entry) HasPhoto() bool {
	return e.PhotoPath != nil && *e.PhotoPath != ""
}

// SearchFilter composes with AND. Zero values impose no constraint.
type SearchFilter struct {
	Term      string
	StartDate *time.Time // inclusive
	EndDate   *time.Time // inclusive
}

// CalculateAge is the number of full years between dob and today:
// the year difference, minus one while this year's birthday is still ahead.
func CalculateAge(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}
