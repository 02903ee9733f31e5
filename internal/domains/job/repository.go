package job

import "context"

// Repository is the data access contract for jobs.
type Repository interface {
	// List returns every job ordered by id.
	List(ctx context.Context) ([]Job, error)

	// GetByID returns ErrJobNotFound if the row does not exist.
	GetByID(ctx context.Context, id int64) (*Job, error)

	// Exists backs reference checks when entries are written.
	Exists(ctx context.Context, id int64) (bool, error)

	Create(ctx context.Context, j *Job) (*Job, error)

	// Update returns ErrJobNotFound if the row does not exist.
	Update(ctx context.Context, j *Job) (*Job, error)

	// Delete is a no-op for unknown ids. Returns ErrJobInUse while entries reference the job.
	Delete(ctx context.Context, id int64) error
}
