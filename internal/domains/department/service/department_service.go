package service

import (
	"context"
	"fmt"
	"strings"

	"addressbook-backend/internal/domains/department"
)

type departmentService struct {
	repo department.Repository
}

func NewDepartmentService(repo department.Repository) department.Service {
	return &departmentService{repo: repo}
}

func (s *departmentService) List(ctx context.Context) ([]department.Department, error) {
	return s.repo.List(ctx)
}

func (s *departmentService) GetByID(ctx context.Context, id int64) (*department.Department, error) {
	if id <= 0 {
		return nil, department.ErrDepartmentNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *departmentService) Create(ctx context.Context, req department.DepartmentRequest) (*department.Department, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", department.ErrInvalidName, err)
	}
	return s.repo.Create(ctx, &department.Department{Name: strings.TrimSpace(req.Name)})
}

func (s *departmentService) Update(ctx context.Context, id int64, req department.DepartmentRequest) (*department.Department, error) {
	if id <= 0 {
		return nil, department.ErrDepartmentNotFound
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", department.ErrInvalidName, err)
	}
	return s.repo.Update(ctx, &department.Department{ID: id, Name: strings.TrimSpace(req.Name)})
}

func (s *departmentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return nil
	}
	return s.repo.Delete(ctx, id)
}
