package department

import "context"

// Repository is the data access contract for departments.
type Repository interface {
	// List returns every department ordered by id.
	List(ctx context.Context) ([]Department, error)

	// GetByID returns ErrDepartmentNotFound if the row does not exist.
	GetByID(ctx context.Context, id int64) (*Department, error)

	// Exists backs reference checks when entries are written.
	Exists(ctx context.Context, id int64) (bool, error)

	Create(ctx context.Context, d *Department) (*Department, error)

	// Update returns ErrDepartmentNotFound if the row does not exist.
	Update(ctx context.Context, d *Department) (*Department, error)

	// Delete is a no-op for unknown ids. Returns ErrDepartmentInUse while entries reference the department.
	Delete(ctx context.Context, id int64) error
}
