package addressbook

import (
	"context"
	"io"
)

// Service defines business logic operations for address book entries.
type Service interface {
	List(ctx context.Context) ([]Entry, error)
	GetByID(ctx context.Context, id int64) (*Entry, error)

	// Create errors: ErrInvalidReference, ErrPasswordRequired, validation errors.
	Create(ctx context.Context, req EntryRequest) (*Entry, error)

	// Update keeps the stored password hash when req.Password is empty
	// and the stored photo when req.Photo is nil.
	Update(ctx context.Context, id int64, req EntryRequest) (*Entry, error)

	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id int64) error

	Search(ctx context.Context, filter SearchFilter) ([]Entry, error)

	// Export renders every entry as an xlsx workbook. baseURL (scheme://host)
	// turns photo names into absolute links.
	Export(ctx context.Context, baseURL string) ([]byte, error)
}

// PhotoStore is implemented by storage.PhotoStorage.
type PhotoStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

// ReferenceChecker is implemented by the job and department repositories.
type ReferenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
