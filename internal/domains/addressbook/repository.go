package addressbook

import "context"

// Repository is the data access contract for entries.
// Every read returns entries with Job and Department populated.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)

	// GetByID returns ErrEntryNotFound if the row does not exist.
	GetByID(ctx context.Context, id int64) (*Entry, error)

	Search(ctx context.Context, filter SearchFilter) ([]Entry, error)

	// Create returns ErrInvalidReference when the job or department row is missing.
	Create(ctx context.Context, e *Entry) (*Entry, error)

	// Update overwrites every column of e.ID.
	// Errors: ErrEntryNotFound, ErrInvalidReference.
	Update(ctx context.Context, e *Entry) (*Entry, error)

	// Delete removes the row and returns its photo path so the caller can clean up storage.
	// Returns ErrEntryNotFound if nothing was deleted.
	Delete(ctx context.Context, id int64) (photoPath *string, err error)
}
