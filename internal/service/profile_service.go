package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
	"github.com/spec-kit/job-board/internal/storage"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// ProfileService manages the profile fields attached to an account.
type ProfileService struct {
	users repository.UserRepository
	store *storage.LocalStore
}

// NewProfileService builds the service.
func NewProfileService(users repository.UserRepository, store *storage.LocalStore) *ProfileService {
	return &ProfileService{users: users, store: store}
}

// ProfileUpdateInput carries editable profile fields.
type ProfileUpdateInput struct {
	FullName string
	Location string
	Bio      string
}

// Get loads the caller's profile.
func (s *ProfileService) Get(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("profile", nil)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update overwrites the caller's profile fields.
func (s *ProfileService) Update(ctx context.Context, username string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	user.FullName = input.FullName
	user.Location = input.Location
	user.Bio = input.Bio

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadResume stores a resume file and records its path on the account.
func (s *ProfileService) UploadResume(ctx context.Context, username, fileName string, data []byte) (*domain.User, error) {
	if len(data) == 0 {
		return nil, apperrors.NewMissingField("resume file is mandatory")
	}

	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	path, err := s.store.Save(fileName, data)
	if err != nil {
		return nil, err
	}

	user.ResumePath = path
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
