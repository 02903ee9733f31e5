package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"addressbook-backend/internal/domains/department"
	"addressbook-backend/internal/infrastructure/database"
	"addressbook-backend/pkg/cache"
)

// Cache key constants
const (
	departmentCacheKeyPrefix = "departments:id:"
	departmentListCacheKey   = "departments:all"
	departmentCachePattern   = "departments:*"
	cacheTTL                 = 15 * time.Minute
)

// postgresRepository implements department.Repository with a read-through cache.
type postgresRepository struct {
	db    database.Querier
	cache cache.Cache
}

func NewPostgresRepository(db database.Querier, c cache.Cache) department.Repository {
	return &postgresRepository{
		db:    db,
		cache: c,
	}
}

func (r *postgresRepository) List(ctx context.Context) ([]department.Department, error) {
	var cached []department.Department
	if ok, err := r.cache.Get(ctx, departmentListCacheKey, &cached); err == nil && ok {
		return cached, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, name FROM departments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	departments := make([]department.Department, 0)
	for rows.Next() {
		var d department.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate departments: %w", err)
	}

	r.setCache(ctx, departmentListCacheKey, departments)
	return departments, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*department.Department, error) {
	cacheKey := departmentCacheKeyPrefix + strconv.FormatInt(id, 10)

	var d department.Department
	if ok, err := r.cache.Get(ctx, cacheKey, &d); err == nil && ok {
		return &d, nil
	}

	err := r.db.QueryRow(ctx, `SELECT id, name FROM departments WHERE id = $1`, id).Scan(&d.ID, &d.Name)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, department.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to get department by id: %w", err)
	}

	r.setCache(ctx, cacheKey, d)
	return &d, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := r.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, department.ErrDepartmentNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *postgresRepository) Create(ctx context.Context, d *department.Department) (*department.Department, error) {
	var created department.Department
	err := r.db.QueryRow(ctx,
		`INSERT INTO departments (name) VALUES ($1) RETURNING id, name`,
		d.Name,
	).Scan(&created.ID, &created.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	r.invalidateCache(ctx)
	return &created, nil
}

func (r *postgresRepository) Update(ctx context.Context, d *department.Department) (*department.Department, error) {
	var updated department.Department
	err := r.db.QueryRow(ctx,
		`UPDATE departments SET name = $2 WHERE id = $1 RETURNING id, name`,
		d.ID, d.Name,
	).Scan(&updated.ID, &updated.Name)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, department.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to update department: %w", err)
	}

	r.invalidateCache(ctx)
	return &updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		if database.PgErrorCode(err) == database.ForeignKeyViolation {
			return department.ErrDepartmentInUse
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}

	if tag.RowsAffected() > 0 {
		r.invalidateCache(ctx)
	}
	return nil
}

// Cache failures are logged and otherwise ignored: the database stays the source of truth.
func (r *postgresRepository) setCache(ctx context.Context, key string, value interface{}) {
	if err := r.cache.Set(ctx, key, value, cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[DEPARTMENT] Cache set failed")
	}
}

func (r *postgresRepository) invalidateCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, departmentCachePattern); err != nil {
		log.Warn().Err(err).Msg("[DEPARTMENT] Cache invalidation failed")
	}
}
