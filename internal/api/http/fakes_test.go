package http

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
)

// In-memory repositories for exercising the full HTTP stack without
// Postgres. Not-found conditions surface as pgx.ErrNoRows, matching the
// real implementations.

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email != "" && user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type memJobRepo struct {
	mu     sync.Mutex
	nextID int64
	jobs   map[int64]*domain.Job
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[int64]*domain.Job)}
}

func (r *memJobRepo) Create(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	job.ID = r.nextID
	clone := *job
	r.jobs[job.ID] = &clone
	return nil
}

func (r *memJobRepo) Update(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *job
	r.jobs[job.ID] = &clone
	return nil
}

func (r *memJobRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.jobs, id)
	return nil
}

func (r *memJobRepo) GetByID(_ context.Context, id int64) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		clone := *job
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memJobRepo) GetByTitle(_ context.Context, title string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if strings.EqualFold(job.Title, title) {
			clone := *job
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memJobRepo) List(_ context.Context, filter repository.JobFilter) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Job, 0)
	for _, job := range r.jobs {
		if memContains(job.Title, filter.Title) &&
			memContains(job.Location, filter.Location) &&
			memContains(job.Type, filter.Type) {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (r *memJobRepo) ListByOwnerUsername(_ context.Context, username string) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Job, 0)
	for _, job := range r.jobs {
		if job.OwnerUsername == username {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (r *memJobRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.jobs)), nil
}

type memApplicationRepo struct {
	mu     sync.Mutex
	nextID int64
	apps   map[int64]*domain.Application
}

func newMemApplicationRepo() *memApplicationRepo {
	return &memApplicationRepo{apps: make(map[int64]*domain.Application)}
}

func (r *memApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	app.ID = r.nextID
	clone := *app
	r.apps[app.ID] = &clone
	return nil
}

func (r *memApplicationRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.apps, id)
	return nil
}

func (r *memApplicationRepo) GetByID(_ context.Context, id int64) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if app, ok := r.apps[id]; ok {
		clone := *app
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memApplicationRepo) ListByApplicantUsername(_ context.Context, username string) ([]domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Application, 0)
	for _, app := range r.apps {
		if app.ApplicantUsername == username {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *memApplicationRepo) ListByJob(_ context.Context, jobID int64) ([]domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Application, 0)
	for _, app := range r.apps {
		if app.JobID == jobID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *memApplicationRepo) ExistsByJobAndApplicant(_ context.Context, jobID, applicantID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.JobID == jobID && app.ApplicantID != nil && *app.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memApplicationRepo) UpdateStatus(_ context.Context, id int64, status domain.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return pgx.ErrNoRows
	}
	app.Status = status
	return nil
}

func (r *memApplicationRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.apps)), nil
}

func memContains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

var (
	_ repository.UserRepository        = (*memUserRepo)(nil)
	_ repository.JobRepository         = (*memJobRepo)(nil)
	_ repository.ApplicationRepository = (*memApplicationRepo)(nil)
)
