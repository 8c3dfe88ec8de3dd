package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/openboard/backend/api/http/presenter"
	"github.com/openboard/backend/pkg/application"
	"github.com/openboard/backend/pkg/security/jwt"
)

type ApplicationHandler struct {
	uc application.UseCase
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
}

func NewApplicationHandler(uc application.UseCase, maxResumeMB int) *ApplicationHandler {
	if maxResumeMB <= 0 {
		maxResumeMB = 10
	}
	return &ApplicationHandler{uc: uc, maxBytes: int64(maxResumeMB) << 20}
}

// Submit accepts a seeker's application with a resume upload. The file is
// stored before the row insert; a failed insert removes the file again.
// @Summary Apply to a job
// @Tags    applications
// @Accept  multipart/form-data
// @Produce json
// @Param   id path int true "job id"
// @Param   resume formData file true "resume file (pdf, doc or docx)"
// @Param   cover_letter formData string false "cover letter"
// @Param   linkedin_url formData string false "linkedin profile URL"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /jobs/{id}/applications [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	jobID, err := parseJobID(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	fh, err := c.FormFile("resume")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "a resume file is required")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	a, err := h.uc.Submit(c.Context(), p, application.SubmitInput{
		JobID:          jobID,
		CoverLetter:    c.FormValue("cover_letter"),
		LinkedInURL:    c.FormValue("linkedin_url"),
		ResumeFilename: fh.Filename,
		Resume:         data,
	})
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"success":     true,
		"application": applicationResponse(a),
	})
}

// Resume streams the stored resume file to the owning employer. The first
// view flips the application from SUBMITTED to VIEWED.
// @Summary Download application resume
// @Tags    applications
// @Produce octet-stream
// @Param   id path string true "application id (UUID)"
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /applications/{id}/resume [get]
func (h *ApplicationHandler) Resume(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid application id")
	}
	path, err := h.uc.OpenResume(c.Context(), p, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.SendFile(path)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus lets the owning employer move an application through the
// pipeline. Setting the current status again is a no-op.
// @Summary Update application status
// @Tags    applications
// @Accept  json
// @Produce json
// @Param   id path string true "application id (UUID)"
// @Param   input body setStatusRequest true "target status"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /applications/{id}/status [patch]
func (h *ApplicationHandler) SetStatus(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid application id")
	}
	var req setStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := h.uc.SetStatus(c.Context(), p, id, application.Status(req.Status)); err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"success": true})
}

// ListForJob returns the applications received by one owned posting.
// @Summary List applications for a job
// @Tags    applications
// @Produce json
// @Param   id path int true "job id"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /employer/jobs/{id}/applications [get]
func (h *ApplicationHandler) ListForJob(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	jobID, err := parseJobID(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	page, pageSize := parsePage(c)
	result, err := h.uc.ListForJob(c.Context(), p, jobID, page, pageSize)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, applicationPageResponse(result))
}

// ListMine returns the caller's own applications.
// @Summary List own applications
// @Tags    applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /seeker/applications [get]
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	page, pageSize := parsePage(c)
	return presenter.JSON(c, http.StatusOK, applicationPageResponse(h.uc.ListMine(c.Context(), p, page, pageSize)))
}

func applicationResponse(a application.Application) fiber.Map {
	return fiber.Map{
		"id":           a.ID.String(),
		"job_id":       a.JobID,
		"seeker_id":    a.SeekerID.String(),
		"cover_letter": a.CoverLetter,
		"linkedin_url": a.LinkedInURL,
		"status":       string(a.Status),
		"created_at":   a.CreatedAt,
	}
}

func applicationPageResponse(p application.Page) fiber.Map {
	items := make([]fiber.Map, 0, len(p.Applications))
	for _, a := range p.Applications {
		items = append(items, applicationResponse(a))
	}
	return fiber.Map{
		"applications": items,
		"total":        p.Total,
		"total_pages":  p.TotalPages,
		"page":         p.Page,
		"page_size":    p.PageSize,
	}
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, &tooLargeError{max: max}
	}
	return b, nil
}

type tooLargeError struct{ max int64 }

func (e *tooLargeError) Error() string { return "file is too large" }
