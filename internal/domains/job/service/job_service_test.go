package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"addressbook-backend/internal/domains/job"
)

type fakeRepo struct {
	rows   map[int64]job.Job
	nextID int64
	inUse  map[int64]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]job.Job{}, inUse: map[int64]bool{}}
}

func (f *fakeRepo) List(context.Context) ([]job.Job, error) {
	out := make([]job.Job, 0, len(f.rows))
	for _, j := range f.rows {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*job.Job, error) {
	j, ok := f.rows[id]
	if !ok {
		return nil, job.ErrJobNotFound
	}
	return &j, nil
}

func (f *fakeRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.rows[id]
	return ok, nil
}

func (f *fakeRepo) Create(_ context.Context, j *job.Job) (*job.Job, error) {
	f.nextID++
	created := job.Job{ID: f.nextID, Title: j.Title}
	f.rows[created.ID] = created
	return &created, nil
}

func (f *fakeRepo) Update(_ context.Context, j *job.Job) (*job.Job, error) {
	if _, ok := f.rows[j.ID]; !ok {
		return nil, job.ErrJobNotFound
	}
	f.rows[j.ID] = *j
	return j, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if f.inUse[id] {
		return job.ErrJobInUse
	}
	delete(f.rows, id)
	return nil
}

func TestJobService_CRUD(t *testing.T) {
	repo := newFakeRepo()
	svc := NewJobService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, job.JobRequest{Title: "  Engineer "})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", created.Title)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := svc.Update(ctx, created.ID, job.JobRequest{Title: "Senior Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", updated.Title)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, job.ErrJobNotFound)

	assert.NoError(t, svc.Delete(ctx, created.ID), "deleting twice is a no-op")
}

func TestJobService_Validation(t *testing.T) {
	svc := NewJobService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, job.JobRequest{Title: ""})
	assert.ErrorIs(t, err, job.ErrInvalidTitle)

	_, err = svc.Create(ctx, job.JobRequest{Title: "   "})
	assert.ErrorIs(t, err, job.ErrInvalidTitle)

	_, err = svc.Update(ctx, 99, job.JobRequest{Title: "Anything"})
	assert.ErrorIs(t, err, job.ErrJobNotFound)
}

func TestJobService_DeleteInUse(t *testing.T) {
	repo := newFakeRepo()
	svc := NewJobService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, job.JobRequest{Title: "Engineer"})
	require.NoError(t, err)
	repo.inUse[created.ID] = true

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, job.ErrJobInUse)
	assert.Equal(t, 409, job.ToHTTPStatus(err))
}
