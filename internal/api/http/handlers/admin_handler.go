package handlers

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/service"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// AdminHandler exposes the stats dashboard and the CSV bulk importer.
type AdminHandler struct {
	stats    *service.StatsService
	importer *service.ImportService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(statsService *service.StatsService, importService *service.ImportService) *AdminHandler {
	return &AdminHandler{stats: statsService, importer: importService}
}

// Stats GET /api/admin/stats. Admin only; the check is in-handler on top
// of the policy table, matching the original's double enforcement.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	if _, err := requireRole(c, domain.RoleAdmin); err != nil {
		return err
	}
	stats, err := h.stats.Collect(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// Import POST /api/admin/import (multipart files: users, jobs, applications; each optional).
func (h *AdminHandler) Import(c *fiber.Ctx) error {
	if _, err := requireRole(c, domain.RoleEmployer, domain.RoleAdmin); err != nil {
		return err
	}

	users, err := formFileReader(c, "users")
	if err != nil {
		return err
	}
	jobs, err := formFileReader(c, "jobs")
	if err != nil {
		return err
	}
	apps, err := formFileReader(c, "applications")
	if err != nil {
		return err
	}
	if users == nil && jobs == nil && apps == nil {
		return apperrors.NewMissingField("at least one CSV file is required")
	}

	result := h.importer.ImportStreams(c.UserContext(), users, jobs, apps)
	return c.JSON(fiber.Map{"status": "imported successfully", "counts": result})
}

func formFileReader(c *fiber.Ctx, field string) (io.Reader, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return readMultipartFile(fileHeader)
}

func readMultipartFile(fileHeader *multipart.FileHeader) (io.Reader, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable upload", nil)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable upload", nil)
	}
	return bytes.NewReader(data), nil
}
