package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
)

// ImportService bulk-loads users, jobs and applications from CSV streams.
// It deliberately mirrors the legacy import contract: naive comma
// splitting with per-pass field limits, header rows skipped, malformed or
// unresolvable rows silently dropped, and each pass isolated so one bad
// file never aborts the others.
type ImportService struct {
	users  repository.UserRepository
	jobs   repository.JobRepository
	apps   repository.ApplicationRepository
	logger *zap.Logger
}

// NewImportService builds the service.
func NewImportService(users repository.UserRepository, jobs repository.JobRepository, apps repository.ApplicationRepository, logger *zap.Logger) *ImportService {
	return &ImportService{users: users, jobs: jobs, apps: apps, logger: logger}
}

// ImportResult counts rows persisted per pass.
type ImportResult struct {
	Users        int `json:"users"`
	Jobs         int `json:"jobs"`
	Applications int `json:"applications"`
}

// ImportStreams runs the three passes in order: users, then jobs (whose
// owners may have just been created), then applications (matched to jobs
// by case-insensitive title). Nil readers skip their pass.
func (s *ImportService) ImportStreams(ctx context.Context, users, jobs, apps io.Reader) ImportResult {
	result := ImportResult{}
	newUsers := make(map[string]*domain.User)

	if users != nil {
		result.Users = s.importUsers(ctx, users, newUsers)
	}
	if jobs != nil {
		result.Jobs = s.importJobs(ctx, jobs, newUsers)
	}
	if apps != nil {
		result.Applications = s.importApplications(ctx, apps)
	}
	return result
}

// ImportDir loads data/{users,jobs,applications}.csv when present; used at
// startup seeding.
func (s *ImportService) ImportDir(ctx context.Context, dir string) (ImportResult, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return ImportResult{}, nil
		}
		return ImportResult{}, err
	}

	open := func(name string) io.ReadCloser {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil
		}
		return f
	}

	var users, jobs, apps io.Reader
	if f := open("users.csv"); f != nil {
		defer f.Close()
		users = f
	}
	if f := open("jobs.csv"); f != nil {
		defer f.Close()
		jobs = f
	}
	if f := open("applications.csv"); f != nil {
		defer f.Close()
		apps = f
	}

	return s.ImportStreams(ctx, users, jobs, apps), nil
}

// users.csv: username,email,password,role?
func (s *ImportService) importUsers(ctx context.Context, r io.Reader, newUsers map[string]*domain.User) int {
	imported := 0
	s.eachRow(r, func(line string) {
		parts := strings.SplitN(line, ",", 4)
		if len(parts) < 3 {
			return
		}

		username := strings.TrimSpace(parts[0])
		email := strings.TrimSpace(parts[1])
		password := strings.TrimSpace(parts[2])
		role := string(domain.RoleJobSeeker)
		if len(parts) == 4 {
			role = strings.TrimSpace(parts[3])
		}

		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			return
		} else if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug("user import lookup failed", zap.String("username", username), zap.Error(err))
			return
		}

		// Import trusts pre-hashed password values as-is.
		user := &domain.User{
			Username:     username,
			Email:        email,
			PasswordHash: password,
			Role:         role,
		}
		if err := s.users.Create(ctx, user); err != nil {
			s.logger.Debug("user import row failed", zap.String("username", username), zap.Error(err))
			return
		}
		newUsers[username] = user
		imported++
	})
	return imported
}

// jobs.csv: title,description,type,location,owner
func (s *ImportService) importJobs(ctx context.Context, r io.Reader, newUsers map[string]*domain.User) int {
	imported := 0
	s.eachRow(r, func(line string) {
		parts := strings.SplitN(line, ",", 5)
		if len(parts) < 5 {
			return
		}

		title := strings.TrimSpace(parts[0])
		description := strings.TrimSpace(parts[1])
		jobType := strings.TrimSpace(parts[2])
		location := strings.TrimSpace(parts[3])
		ownerName := strings.TrimSpace(parts[4])

		owner, err := s.users.GetByUsername(ctx, ownerName)
		if err != nil {
			owner = newUsers[ownerName]
		}
		if owner == nil {
			return
		}

		job := &domain.Job{
			OwnerID:       owner.ID,
			OwnerUsername: owner.Username,
			Title:         title,
			Description:   description,
			Location:      location,
			Type:          jobType,
			Active:        true,
		}
		if err := s.jobs.Create(ctx, job); err != nil {
			s.logger.Debug("job import row failed", zap.String("title", title), zap.Error(err))
			return
		}
		imported++
	})
	return imported
}

// applications.csv: applicant,email,_,jobTitle,cover
func (s *ImportService) importApplications(ctx context.Context, r io.Reader) int {
	imported := 0
	s.eachRow(r, func(line string) {
		parts := strings.SplitN(line, ",", 6)
		if len(parts) < 5 {
			return
		}

		applicantName := strings.TrimSpace(parts[0])
		email := strings.TrimSpace(parts[1])
		jobTitle := strings.TrimSpace(parts[3])
		cover := strings.TrimSpace(parts[4])

		job, err := s.jobs.GetByTitle(ctx, jobTitle)
		if err != nil {
			return
		}

		app := &domain.Application{
			JobID:          job.ID,
			ApplicantEmail: email,
			CoverLetter:    cover,
			Status:         domain.ApplicationStatusPending,
		}
		if applicant, err := s.users.GetByUsername(ctx, applicantName); err == nil {
			app.ApplicantID = &applicant.ID
		}

		if err := s.apps.Create(ctx, app); err != nil {
			s.logger.Debug("application import row failed", zap.String("job_title", jobTitle), zap.Error(err))
			return
		}
		imported++
	})
	return imported
}

// maxImportRowBytes caps one CSV row. Cover letters can run long;
// the scanner's default 64KB token limit would abort the whole pass on
// the first oversized row instead of continuing past it.
const maxImportRowBytes = 1 << 20

// eachRow feeds every non-header line to fn.
func (s *ImportService) eachRow(r io.Reader, fn func(line string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxImportRowBytes)
	header := true
	for scanner.Scan() {
		if header {
			header = false
			continue
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(line)
	}
	if err := scanner.Err(); err != nil {
		s.logger.Debug("import stream read failed", zap.Error(err))
	}
}
