package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-board/internal/domain"
)

// JobFilter narrows job listings; empty fields match everything.
type JobFilter struct {
	Title    string
	Location string
	Type     string
}

// JobRepository defines persistence access for job postings.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	Update(ctx context.Context, job *domain.Job) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Job, error)
	GetByTitle(ctx context.Context, title string) (*domain.Job, error)
	List(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	ListByOwnerUsername(ctx context.Context, username string) ([]domain.Job, error)
	Count(ctx context.Context) (int64, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository returns a Postgres-backed implementation.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobSelect = `
        SELECT j.id, j.owner_id, u.username, j.title, j.description, j.location, j.job_type, j.active, j.created_at
        FROM jobs j JOIN users u ON u.id = j.owner_id`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (owner_id, title, description, location, job_type, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		job.OwnerID,
		job.Title,
		job.Description,
		job.Location,
		job.Type,
		job.Active,
	).Scan(&job.ID, &job.CreatedAt)
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	const query = `
        UPDATE jobs SET title=$1, description=$2, location=$3, job_type=$4, active=$5
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		job.Title,
		job.Description,
		job.Location,
		job.Type,
		job.Active,
		job.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	return r.getOne(ctx, jobSelect+` WHERE j.id=$1`, id)
}

// GetByTitle resolves a job by case-insensitive title match; used by the CSV importer.
func (r *jobRepository) GetByTitle(ctx context.Context, title string) (*domain.Job, error) {
	return r.getOne(ctx, jobSelect+` WHERE LOWER(j.title)=LOWER($1) ORDER BY j.id LIMIT 1`, title)
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	query := jobSelect + `
        WHERE j.title ILIKE '%' || $1 || '%'
          AND j.location ILIKE '%' || $2 || '%'
          AND j.job_type ILIKE '%' || $3 || '%'
        ORDER BY j.created_at DESC`

	rows, err := r.pool.Query(ctx, query, filter.Title, filter.Location, filter.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) ListByOwnerUsername(ctx context.Context, username string) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, jobSelect+` WHERE u.username=$1 ORDER BY j.created_at DESC`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *jobRepository) getOne(ctx context.Context, query string, arg any) (*domain.Job, error) {
	var job domain.Job
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&job.ID,
		&job.OwnerID,
		&job.OwnerUsername,
		&job.Title,
		&job.Description,
		&job.Location,
		&job.Type,
		&job.Active,
		&job.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

func scanJobs(rows pgx.Rows) ([]domain.Job, error) {
	jobs := make([]domain.Job, 0)
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID,
			&job.OwnerID,
			&job.OwnerUsername,
			&job.Title,
			&job.Description,
			&job.Location,
			&job.Type,
			&job.Active,
			&job.CreatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
