package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/dto"
	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/service"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// ProfilesHandler exposes profile read/update and resume upload.
type ProfilesHandler struct {
	service *service.ProfileService
}

// NewProfilesHandler constructs handler.
func NewProfilesHandler(profileService *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{service: profileService}
}

// Me GET /api/profiles/me.
func (h *ProfilesHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	user, err := h.service.Get(c.UserContext(), principal.Username)
	if err != nil {
		return err
	}
	return c.JSON(profileResponse(user))
}

// Update PUT /api/profiles/update.
func (h *ProfilesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.Update(c.UserContext(), principal.Username, service.ProfileUpdateInput{
		FullName: req.FullName,
		Location: req.Location,
		Bio:      req.Bio,
	})
	if err != nil {
		return err
	}
	return c.JSON(profileResponse(user))
}

// UploadResume POST /api/profiles/upload-resume (multipart: file).
func (h *ProfilesHandler) UploadResume(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewMissingField("resume file is mandatory")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable resume file", nil)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewValidationError("unreadable resume file", nil)
	}

	user, err := h.service.UploadResume(c.UserContext(), principal.Username, fileHeader.Filename, data)
	if err != nil {
		return err
	}
	return c.JSON(profileResponse(user))
}

func profileResponse(user *domain.User) dto.ProfileResponse {
	return dto.ProfileResponse{
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		FullName:   user.FullName,
		Location:   user.Location,
		Bio:        user.Bio,
		ResumePath: user.ResumePath,
	}
}
