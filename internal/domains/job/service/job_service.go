package service

import (
	"context"
	"fmt"
	"strings"

	"addressbook-backend/internal/domains/job"
)

type jobService struct {
	repo job.Repository
}

func NewJobService(repo job.Repository) job.Service {
	return &jobService{repo: repo}
}

func (s *jobService) List(ctx context.Context) ([]job.Job, error) {
	return s.repo.List(ctx)
}

func (s *jobService) GetByID(ctx context.Context, id int64) (*job.Job, error) {
	if id <= 0 {
		return nil, job.ErrJobNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *jobService) Create(ctx context.Context, req job.JobRequest) (*job.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", job.ErrInvalidTitle, err)
	}
	return s.repo.Create(ctx, &job.Job{Title: strings.TrimSpace(req.Title)})
}

func (s *jobService) Update(ctx context.Context, id int64, req job.JobRequest) (*job.Job, error) {
	if id <= 0 {
		return nil, job.ErrJobNotFound
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", job.ErrInvalidTitle, err)
	}
	return s.repo.Update(ctx, &job.Job{ID: id, Title: strings.TrimSpace(req.Title)})
}

func (s *jobService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return nil
	}
	return s.repo.Delete(ctx, id)
}
