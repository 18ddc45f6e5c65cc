package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/dto"
	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/service"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// ApplicationsHandler manages application endpoints including CV upload
// and download.
type ApplicationsHandler struct {
	service *service.ApplicationService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(appService *service.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{service: appService}
}

// Apply POST /api/applications/apply (multipart: jobId, coverLetter?, cvFile).
func (h *ApplicationsHandler) Apply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	jobID, err := strconv.ParseInt(c.FormValue("jobId"), 10, 64)
	if err != nil || jobID <= 0 {
		return apperrors.NewValidationError("invalid jobId", nil)
	}

	fileHeader, err := c.FormFile("cvFile")
	if err != nil {
		return apperrors.NewMissingField("CV file is mandatory")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable CV file", nil)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewValidationError("unreadable CV file", nil)
	}

	app, err := h.service.Apply(c.UserContext(), principal.Username, service.ApplyInput{
		JobID:       jobID,
		CoverLetter: c.FormValue("coverLetter"),
		CvFileName:  fileHeader.Filename,
		CvData:      data,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(applicationResponse(app))
}

// Mine GET /api/applications/me.
func (h *ApplicationsHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	apps, err := h.service.ListMine(c.UserContext(), principal.Username)
	if err != nil {
		return err
	}
	return c.JSON(applicationResponses(apps))
}

// Withdraw DELETE /api/applications/:id.
func (h *ApplicationsHandler) Withdraw(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Withdraw(c.UserContext(), principal.Username, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Successfully withdrawn."})
}

// Download GET /api/applications/download/:id serves the stored CV inline.
func (h *ApplicationsHandler) Download(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	path, name, err := h.service.CvFilePath(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+name+`"`)
	return c.SendFile(path)
}

// ForJob GET /api/applications/job/:jobId lists applicants for a posting.
func (h *ApplicationsHandler) ForJob(c *fiber.Ctx) error {
	jobID, err := pathID(c, "jobId")
	if err != nil {
		return err
	}
	apps, err := h.service.ListForJob(c.UserContext(), jobID)
	if err != nil {
		return err
	}
	return c.JSON(applicationResponses(apps))
}

// UpdateStatus PUT /api/applications/:id/status?status=Hired.
func (h *ApplicationsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	status := c.Query("status")
	if status == "" {
		return apperrors.NewMissingField("status is required")
	}
	app, err := h.service.UpdateStatus(c.UserContext(), id, domain.ApplicationStatus(status))
	if err != nil {
		return err
	}
	return c.JSON(applicationResponse(app))
}

func applicationResponse(app *domain.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:             app.ID,
		JobID:          app.JobID,
		JobTitle:       app.JobTitle,
		Applicant:      app.ApplicantUsername,
		ApplicantEmail: app.ApplicantEmail,
		CoverLetter:    app.CoverLetter,
		Status:         string(app.Status),
		CreatedAt:      app.CreatedAt,
	}
}

func applicationResponses(apps []domain.Application) []dto.ApplicationResponse {
	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, applicationResponse(&apps[i]))
	}
	return items
}
