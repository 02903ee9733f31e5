package job

import "context"

// Service defines business logic operations for the Job domain.
type Service interface {
	List(ctx context.Context) ([]Job, error)
	GetByID(ctx context.Context, id int64) (*Job, error)
	Create(ctx context.Context, req JobRequest) (*Job, error)
	Update(ctx context.Context, id int64, req JobRequest) (*Job, error)
	Delete(ctx context.Context, id int64) error
}
