package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-board/internal/domain"
)

// ApplicationRepository defines persistence access for job applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Application, error)
	ListByApplicantUsername(ctx context.Context, username string) ([]domain.Application, error)
	ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error)
	ExistsByJobAndApplicant(ctx context.Context, jobID, applicantID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error
	Count(ctx context.Context) (int64, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository returns a Postgres-backed implementation.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationSelect = `
        SELECT a.id, a.job_id, j.title, a.applicant_id, COALESCE(u.username, ''), a.applicant_email,
               a.cover_letter, a.cv_path, a.status, a.created_at
        FROM applications a
        JOIN jobs j ON j.id = a.job_id
        LEFT JOIN users u ON u.id = a.applicant_id`

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	const query = `
        INSERT INTO applications (job_id, applicant_id, applicant_email, cover_letter, cv_path, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		app.JobID,
		app.ApplicantID,
		app.ApplicantEmail,
		app.CoverLetter,
		app.CvPath,
		app.Status,
	).Scan(&app.ID, &app.CreatedAt)
}

func (r *applicationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	var app domain.Application
	if err := r.pool.QueryRow(ctx, applicationSelect+` WHERE a.id=$1`, id).Scan(
		&app.ID,
		&app.JobID,
		&app.JobTitle,
		&app.ApplicantID,
		&app.ApplicantUsername,
		&app.ApplicantEmail,
		&app.CoverLetter,
		&app.CvPath,
		&app.Status,
		&app.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListByApplicantUsername(ctx context.Context, username string) ([]domain.Application, error) {
	rows, err := r.pool.Query(ctx, applicationSelect+` WHERE u.username=$1 ORDER BY a.created_at DESC`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	rows, err := r.pool.Query(ctx, applicationSelect+` WHERE a.job_id=$1 ORDER BY a.created_at DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *applicationRepository) ExistsByJobAndApplicant(ctx context.Context, jobID, applicantID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id=$1 AND applicant_id=$2)`,
		jobID, applicantID,
	).Scan(&exists)
	return exists, err
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE applications SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanApplications(rows pgx.Rows) ([]domain.Application, error) {
	apps := make([]domain.Application, 0)
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID,
			&app.JobID,
			&app.JobTitle,
			&app.ApplicantID,
			&app.ApplicantUsername,
			&app.ApplicantEmail,
			&app.CoverLetter,
			&app.CvPath,
			&app.Status,
			&app.CreatedAt,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
