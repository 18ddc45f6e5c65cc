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
	"github.com/spec-kit/job-board/internal/storage"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// ApplicationService handles job applications and their uploaded CVs.
type ApplicationService struct {
	apps       repository.ApplicationRepository
	jobs       repository.JobRepository
	users      repository.UserRepository
	store      *storage.LocalStore
	dispatcher events.Dispatcher
}

// NewApplicationService builds the service.
func NewApplicationService(
	apps repository.ApplicationRepository,
	jobs repository.JobRepository,
	users repository.UserRepository,
	store *storage.LocalStore,
	dispatcher events.Dispatcher,
) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, users: users, store: store, dispatcher: dispatcher}
}

// ApplyInput carries a new application with its CV file contents.
type ApplyInput struct {
	JobID       int64
	CoverLetter string
	CvFileName  string
	CvData      []byte
}

// Apply records a new application for the caller, storing the mandatory CV.
func (s *ApplicationService) Apply(ctx context.Context, applicantUsername string, input ApplyInput) (*domain.Application, error) {
	if len(input.CvData) == 0 {
		return nil, apperrors.NewMissingField("CV file is mandatory")
	}

	applicant, err := s.users.GetByUsername(ctx, applicantUsername)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, input.JobID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("job", map[string]any{"id": input.JobID})
	}
	if err != nil {
		return nil, err
	}

	already, err := s.apps.ExistsByJobAndApplicant(ctx, job.ID, applicant.ID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, apperrors.NewValidationError("you have already applied for this position", nil)
	}

	cvPath, err := s.store.Save(input.CvFileName, input.CvData)
	if err != nil {
		return nil, err
	}

	app := &domain.Application{
		JobID:             job.ID,
		JobTitle:          job.Title,
		ApplicantID:       &applicant.ID,
		ApplicantUsername: applicant.Username,
		ApplicantEmail:    applicant.Email,
		CoverLetter:       input.CoverLetter,
		CvPath:            cvPath,
		Status:            domain.ApplicationStatusPending,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventApplicationSubmitted,
			Actor:     applicant.Username,
			Timestamp: time.Now(),
			Payload: events.ApplicationSubmittedPayload{
				ApplicationID:  app.ID,
				JobID:          job.ID,
				JobTitle:       job.Title,
				ApplicantEmail: app.ApplicantEmail,
			},
		})
	}
	return app, nil
}

// ListMine returns the caller's applications.
func (s *ApplicationService) ListMine(ctx context.Context, applicantUsername string) ([]domain.Application, error) {
	return s.apps.ListByApplicantUsername(ctx, applicantUsername)
}

// Withdraw deletes the caller's own application.
func (s *ApplicationService) Withdraw(ctx context.Context, callerUsername string, id int64) error {
	app, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if app.ApplicantUsername == "" || app.ApplicantUsername != callerUsername {
		return apperrors.NewForbidden("you can only withdraw your own applications")
	}
	return s.apps.Delete(ctx, id)
}

// ListForJob returns applications submitted against one posting.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", map[string]any{"id": jobID})
		}
		return nil, err
	}
	return s.apps.ListByJob(ctx, jobID)
}

// UpdateStatus records the employer's review decision.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	app, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	old := app.Status
	if err := s.apps.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	app.Status = status

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventApplicationStatusChanged,
			Timestamp: time.Now(),
			Payload: events.ApplicationStatusChangedPayload{
				ApplicationID: app.ID,
				JobID:         app.JobID,
				OldStatus:     old,
				NewStatus:     status,
			},
		})
	}
	return app, nil
}

// CvFilePath resolves the stored CV for download.
func (s *ApplicationService) CvFilePath(ctx context.Context, id int64) (string, string, error) {
	app, err := s.getByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if app.CvPath == "" {
		return "", "", apperrors.NewNotFound("cv", nil)
	}
	path, err := s.store.Path(app.CvPath)
	if err != nil {
		return "", "", apperrors.NewNotFound("cv", nil)
	}
	return path, app.CvPath, nil
}

func (s *ApplicationService) getByID(ctx context.Context, id int64) (*domain.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("application", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}
