package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"addressbook-backend/internal/domains/addressbook"
	"addressbook-backend/internal/domains/department"
	"addressbook-backend/internal/domains/job"
	"addressbook-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) addressbook.Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context) ([]addressbook.Entry, error) {
	return r.queryEntries(ctx, selectEntries+"\nORDER BY e.id")
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*addressbook.Entry, error) {
	row := r.db.QueryRow(ctx, selectEntries+"\nWHERE e.id = $1", id)

	e, err := scanEntry(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, addressbook.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry by id: %w", err)
	}
	return e, nil
}

func (r *postgresRepository) Search(ctx context.Context, filter addressbook.SearchFilter) ([]addressbook.Entry, error) {
	query, args := buildSearchQuery(filter)
	return r.queryEntries(ctx, query, args...)
}

// Create inserts and reads the row back with its relations in one round trip.
func (r *postgresRepository) Create(ctx context.Context, e *addressbook.Entry) (*addressbook.Entry, error) {
	query := `
WITH e AS (
    INSERT INTO address_book_entries
        (full_name, job_id, department_id, mobile_number, date_of_birth,
         address, email, password_hash, photo_path, age)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING *
)
SELECT ` + entryColumns + `
FROM e
` + entryJoins

	row := r.db.QueryRow(ctx, query,
		e.FullName,
		e.JobID,
		e.DepartmentID,
		e.MobileNumber,
		e.DateOfBirth,
		e.Address,
		e.Email,
		e.PasswordHash,
		e.PhotoPath,
		e.Age,
	)

	created, err := scanEntry(row)
	if err != nil {
		if database.PgErrorCode(err) == database.ForeignKeyViolation {
			return nil, addressbook.ErrInvalidReference
		}
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) Update(ctx context.Context, e *addressbook.Entry) (*addressbook.Entry, error) {
	query := `
WITH e AS (
    UPDATE address_book_entries SET
        full_name = $2,
        job_id = $3,
        department_id = $4,
        mobile_number = $5,
        date_of_birth = $6,
        address = $7,
        email = $8,
        password_hash = $9,
        photo_path = $10,
        age = $11
    WHERE id = $1
    RETURNING *
)
SELECT ` + entryColumns + `
FROM e
` + entryJoins

	row := r.db.QueryRow(ctx, query,
		e.ID,
		e.FullName,
		e.JobID,
		e.DepartmentID,
		e.MobileNumber,
		e.DateOfBirth,
		e.Address,
		e.Email,
		e.PasswordHash,
		e.PhotoPath,
		e.Age,
	)

	updated, err := scanEntry(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, addressbook.ErrEntryNotFound
		}
		if database.PgErrorCode(err) == database.ForeignKeyViolation {
			return nil, addressbook.ErrInvalidReference
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) (*string, error) {
	var photoPath *string
	err := r.db.QueryRow(ctx,
		`DELETE FROM address_book_entries WHERE id = $1 RETURNING photo_path`, id,
	).Scan(&photoPath)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, addressbook.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to delete entry: %w", err)
	}
	return photoPath, nil
}

func (r *postgresRepository) queryEntries(ctx context.Context, query string, args ...any) ([]addressbook.Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]addressbook.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

// scanEntry reads the columns listed in entryColumns.
func scanEntry(row pgx.Row) (*addressbook.Entry, error) {
	var (
		e   addressbook.Entry
		j   job.Job
		d   department.Department
		dob time.Time
	)

	err := row.Scan(
		&e.ID,
		&e.FullName,
		&e.JobID,
		&j.Title,
		&e.DepartmentID,
		&d.Name,
		&e.MobileNumber,
		&dob,
		&e.Address,
		&e.Email,
		&e.PasswordHash,
		&e.PhotoPath,
		&e.Age,
	)
	if err != nil {
		return nil, err
	}

	j.ID = e.JobID
	d.ID = e.DepartmentID
	e.Job = &j
	e.Department = &d
	e.DateOfBirth = time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
	return &e, nil
}
