package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/repository"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// JobService manages job postings and their ownership rules.
type JobService struct {
	jobs       repository.JobRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewJobService builds the service.
func NewJobService(jobs repository.JobRepository, users repository.UserRepository, dispatcher events.Dispatcher) *JobService {
	return &JobService{jobs: jobs, users: users, dispatcher: dispatcher}
}

// JobCreateInput carries fields for a new posting.
type JobCreateInput struct {
	Title       string
	Description string
	Location    string
	Type        string
}

// JobUpdateInput carries a partial update; nil fields are left unchanged.
type JobUpdateInput struct {
	Title       *string
	Description *string
	Location    *string
	Type        *string
}

// Create stores a new posting owned by the caller.
func (s *JobService) Create(ctx context.Context, ownerUsername string, input JobCreateInput) (*domain.Job, error) {
	if input.Title == "" {
		return nil, apperrors.NewMissingField("title is required")
	}

	owner, err := s.users.GetByUsername(ctx, ownerUsername)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewUnauthenticated("user not found")
	}
	if err != nil {
		return nil, err
	}

	location := input.Location
	if location == "" {
		location = "Remote"
	}
	jobType := input.Type
	if jobType == "" {
		jobType = "Full-time"
	}

	job := &domain.Job{
		OwnerID:       owner.ID,
		OwnerUsername: owner.Username,
		Title:         input.Title,
		Description:   input.Description,
		Location:      location,
		Type:          jobType,
		Active:        true,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventJobCreated,
			Actor:     owner.Username,
			Timestamp: time.Now(),
			Payload: events.JobCreatedPayload{
				JobID:    job.ID,
				Title:    job.Title,
				Location: job.Location,
				JobType:  job.Type,
			},
		})
	}
	return job, nil
}

// Get returns one posting.
func (s *JobService) Get(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("job", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// List returns postings matching all the given filters.
func (s *JobService) List(ctx context.Context, filter repository.JobFilter) ([]domain.Job, error) {
	return s.jobs.List(ctx, filter)
}

// ListOwned returns postings owned by the caller.
func (s *JobService) ListOwned(ctx context.Context, ownerUsername string) ([]domain.Job, error) {
	return s.jobs.ListByOwnerUsername(ctx, ownerUsername)
}

// Update applies a partial update after verifying ownership.
func (s *JobService) Update(ctx context.Context, callerUsername string, id int64, input JobUpdateInput) (*domain.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.OwnerUsername != callerUsername {
		return nil, apperrors.NewForbidden("you are not the owner of this job")
	}

	if input.Title != nil {
		job.Title = *input.Title
	}
	if input.Description != nil {
		job.Description = *input.Description
	}
	if input.Location != nil {
		job.Location = *input.Location
	}
	if input.Type != nil {
		job.Type = *input.Type
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete removes a posting after verifying ownership.
func (s *JobService) Delete(ctx context.Context, callerUsername string, id int64) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.OwnerUsername != callerUsername {
		return apperrors.NewForbidden("you are not the owner of this job")
	}
	return s.jobs.Delete(ctx, id)
}
