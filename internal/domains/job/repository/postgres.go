package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"addressbook-backend/internal/domains/job"
	"addressbook-backend/internal/infrastructure/database"
	"addressbook-backend/pkg/cache"
)

// Cache key constants
const (
	jobCacheKeyPrefix = "jobs:id:"
	jobListCacheKey   = "jobs:all"
	jobCachePattern   = "jobs:*"
	cacheTTL          = 15 * time.Minute
)

// postgresRepository implements job.Repository with a read-through cache.
type postgresRepository struct {
	db    database.Querier
	cache cache.Cache
}

func NewPostgresRepository(db database.Querier, c cache.Cache) job.Repository {
	return &postgresRepository{
		db:    db,
		cache: c,
	}
}

func (r *postgresRepository) List(ctx context.Context) ([]job.Job, error) {
	var cached []job.Job
	if ok, err := r.cache.Get(ctx, jobListCacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, title FROM jobs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]job.Job, 0)
	for rows.Next() {
		var j job.Job
		if err := rows.Scan(&j.ID, &j.Title); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	r.setCache(ctx, jobListCacheKey, jobs)
	return jobs, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*job.Job, error) {
	cacheKey := jobCacheKeyPrefix + strconv.FormatInt(id, 10)

	var j job.Job
	if ok, err := r.cache.Get(ctx, cacheKey, &j); err == nil && ok {
		return &j, nil
	}

	err := r.db.QueryRow(ctx, `SELECT id, title FROM jobs WHERE id = $1`, id).Scan(&j.ID, &j.Title)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, job.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job by id: %w", err)
	}

	r.setCache(ctx, cacheKey, j)
	return &j, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := r.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, job.ErrJobNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *postgresRepository) Create(ctx context.Context, j *job.Job) (*job.Job, error) {
	var created job.Job
	err := r.db.QueryRow(ctx,
		`INSERT INTO jobs (title) VALUES ($1) RETURNING id, title`,
		j.Title,
	).Scan(&created.ID, &created.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	r.invalidateCache(ctx)
	return &created, nil
}

func (r *postgresRepository) Update(ctx context.Context, j *job.Job) (*job.Job, error) {
	var updated job.Job
	err := r.db.QueryRow(ctx,
		`UPDATE jobs SET title = $2 WHERE id = $1 RETURNING id, title`,
		j.ID, j.Title,
	).Scan(&updated.ID, &updated.Title)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, job.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	r.invalidateCache(ctx)
	return &updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		if database.PgErrorCode(err) == database.ForeignKeyViolation {
			return job.ErrJobInUse
		}
		return fmt.Errorf("failed to delete job: %w", err)
	}

	if tag.RowsAffected() > 0 {
		r.invalidateCache(ctx)
	}
	return nil
}

// Cache failures are logged and otherwise ignored: the database stays the source of truth.
func (r *postgresRepository) setCache(ctx context.Context, key string, value interface{}) {
	if err := r.cache.Set(ctx, key, value, cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[JOB] Cache set failed")
	}
}

func (r *postgresRepository) invalidateCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, jobCachePattern); err != nil {
		log.Warn().Err(err).Msg("[JOB] Cache invalidation failed")
	}
}
