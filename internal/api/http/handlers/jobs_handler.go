package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/dto"
	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
	"github.com/spec-kit/job-board/internal/service"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// JobsHandler manages job posting endpoints.
type JobsHandler struct {
	service *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobService *service.JobService) *JobsHandler {
	return &JobsHandler{service: jobService}
}

// List GET /api/jobs with optional title/location/type AND-filters.
func (h *JobsHandler) List(c *fiber.Ctx) error {
	jobs, err := h.service.List(c.UserContext(), repository.JobFilter{
		Title:    c.Query("title"),
		Location: c.Query("location"),
		Type:     c.Query("type"),
	})
	if err != nil {
		return err
	}
	return c.JSON(jobResponses(jobs))
}

// MyListings GET /api/jobs/my-listings. The route is publicly matched, so
// role enforcement lives here, mirroring the original's method-level check.
func (h *JobsHandler) MyListings(c *fiber.Ctx) error {
	principal, err := requireRole(c, domain.RoleEmployer, domain.RoleAdmin)
	if err != nil {
		return err
	}
	jobs, err := h.service.ListOwned(c.UserContext(), principal.Username)
	if err != nil {
		return err
	}
	return c.JSON(jobResponses(jobs))
}

// Get GET /api/jobs/:id.
func (h *JobsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	job, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(jobResponse(job))
}

// Create POST /api/jobs.
func (h *JobsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	job, err := h.service.Create(c.UserContext(), principal.Username, service.JobCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(jobResponse(job))
}

// Update PUT /api/jobs/:id.
func (h *JobsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	job, err := h.service.Update(c.UserContext(), principal.Username, id, service.JobUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
	})
	if err != nil {
		return err
	}
	return c.JSON(jobResponse(job))
}

// Delete DELETE /api/jobs/:id.
func (h *JobsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal.Username, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Job deleted successfully"})
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func requireRole(c *fiber.Ctx, roles ...domain.Role) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	role := auth.NormalizeRole(principal.Role)
	for _, allowed := range roles {
		if role == string(allowed) {
			return principal, nil
		}
	}
	return nil, apperrors.NewForbidden("insufficient role")
}

func jobResponse(job *domain.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:          job.ID,
		Owner:       job.OwnerUsername,
		Title:       job.Title,
		Description: job.Description,
		Location:    job.Location,
		Type:        job.Type,
		Active:      job.Active,
		CreatedAt:   job.CreatedAt,
	}
}

func jobResponses(jobs []domain.Job) []dto.JobResponse {
	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, jobResponse(&jobs[i]))
	}
	return items
}
