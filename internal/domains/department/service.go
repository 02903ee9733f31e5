package department

import "context"

// Service defines business logic operations for the Department domain.
type Service interface {
	List(ctx context.Context) ([]Department, error)
	GetByID(ctx context.Context, id int64) (*Department, error)
	Create(ctx context.Context, req DepartmentRequest) (*Department, error)
	Update(ctx context.Context, id int64, req DepartmentRequest) (*Department, error)
	Delete(ctx context.Context, id int64) error
}
