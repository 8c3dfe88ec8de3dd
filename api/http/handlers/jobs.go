package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/openboard/backend/api/http/presenter"
	"github.com/openboard/backend/pkg/identity"
	"github.com/openboard/backend/pkg/job"
	"github.com/openboard/backend/pkg/security/jwt"
)

type JobHandler struct {
	uc job.UseCase
}

func NewJobHandler(uc job.UseCase) *JobHandler { return &JobHandler{uc: uc} }

type jobRequest struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Remote         bool     `json:"remote"`
	Type           string   `json:"type"`
	SalaryMin      *int64   `json:"salary_min"`
	SalaryMax      *int64   `json:"salary_max"`
	SalaryCurrency string   `json:"salary_currency"`
	Description    string   `json:"description"`
	Requirements   string   `json:"requirements"`
	ApplyEmail     string   `json:"apply_email"`
	ApplyURL       string   `json:"apply_url"`
	Tags           []string `json:"tags"`
}

func (req jobRequest) toEntity() job.Job {
	return job.Job{
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		Remote:         req.Remote,
		Type:           job.JobType(strings.ToUpper(strings.TrimSpace(req.Type))),
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		SalaryCurrency: req.SalaryCurrency,
		Description:    req.Description,
		Requirements:   req.Requirements,
		ApplyEmail:     strings.TrimSpace(req.ApplyEmail),
		ApplyURL:       strings.TrimSpace(req.ApplyURL),
		Tags:           req.Tags,
	}
}

// Create posts a new job; it always enters review as PENDING_APPROVAL.
// @Summary Create job
// @Tags    jobs
// @Accept  json
// @Produce json
// @Param   input body jobRequest true "job payload"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /jobs [post]
func (h *JobHandler) Create(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	var req jobRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	created, err := h.uc.Create(c.Context(), p, req.toEntity())
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"success": true,
		"job":     jobResponse(created),
	})
}

// Update edits an owned job; the posting returns to PENDING_APPROVAL.
// @Summary Update job
// @Tags    jobs
// @Accept  json
// @Produce json
// @Param   id path int true "job id"
// @Param   input body jobRequest true "job payload"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /jobs/{id} [put]
func (h *JobHandler) Update(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	id, err := parseJobID(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	var req jobRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	j := req.toEntity()
	j.ID = id
	updated, err := h.uc.Update(c.Context(), p, j)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"success": true,
		"job":     jobResponse(updated),
	})
}

type closeJobRequest struct {
	Status string `json:"status"`
}

// Close moves an approved posting into FILLED or ARCHIVED.
// @Summary Close job
// @Tags    jobs
// @Accept  json
// @Produce json
// @Param   id path int true "job id"
// @Param   input body closeJobRequest true "target status"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /jobs/{id}/close [post]
func (h *JobHandler) Close(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	id, err := parseJobID(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	var req closeJobRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	target := job.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err := h.uc.Close(c.Context(), p, id, target); err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"success": true})
}

// Get returns one posting. Unpublished postings are visible only to their
// owner and admins.
// @Summary Get job
// @Tags    jobs
// @Produce json
// @Param   id path int true "job id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /jobs/{id} [get]
func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	var principal *identity.Principal
	if p, ok := jwt.Principal(c); ok {
		principal = &p
	}
	j, err := h.uc.Get(c.Context(), principal, id)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"job": jobResponse(j)})
}

// List returns the public, filtered, paginated board of approved jobs.
// Failures degrade to an empty page so the board stays up.
// @Summary List published jobs
// @Tags    jobs
// @Produce json
// @Param   q query string false "title/company match"
// @Param   location query string false "location match"
// @Param   type query string false "job type"
// @Param   remote query bool false "remote only"
// @Param   page query int false "page number"
// @Param   page_size query int false "page size"
// @Success 200 {object} map[string]any
// @Router  /jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	f := job.Filter{
		Query:    c.Query("q"),
		Location: c.Query("location"),
	}
	if t := strings.ToUpper(strings.TrimSpace(c.Query("type"))); t != "" {
		f.Type = job.JobType(t)
	}
	if v := strings.TrimSpace(c.Query("remote")); v != "" {
		if remote, err := strconv.ParseBool(v); err == nil {
			f.Remote = &remote
		}
	}
	page, pageSize := parsePage(c)
	return presenter.JSON(c, http.StatusOK, pageResponse(h.uc.ListPublic(c.Context(), f, page, pageSize)))
}

// ListMine returns the caller's own postings in any status.
// @Summary List own jobs
// @Tags    jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /employer/jobs [get]
func (h *JobHandler) ListMine(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	page, pageSize := parsePage(c)
	return presenter.JSON(c, http.StatusOK, pageResponse(h.uc.ListMine(c.Context(), p, page, pageSize)))
}

func parseJobID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func jobResponse(j job.Job) fiber.Map {
	return fiber.Map{
		"id":              j.ID,
		"employer_id":     j.EmployerID.String(),
		"title":           j.Title,
		"company":         j.Company,
		"location":        j.Location,
		"remote":          j.Remote,
		"type":            string(j.Type),
		"salary_min":      j.SalaryMin,
		"salary_max":      j.SalaryMax,
		"salary_currency": j.SalaryCurrency,
		"description":     j.Description,
		"requirements":    j.Requirements,
		"apply_email":     j.ApplyEmail,
		"apply_url":       j.ApplyURL,
		"tags":            j.Tags,
		"status":          string(j.Status),
		"created_at":      j.CreatedAt,
		"updated_at":      j.UpdatedAt,
	}
}

func pageResponse(p job.Page) fiber.Map {
	items := make([]fiber.Map, 0, len(p.Jobs))
	for _, j := range p.Jobs {
		items = append(items, jobResponse(j))
	}
	return fiber.Map{
		"jobs":        items,
		"total":       p.Total,
		"total_pages": p.TotalPages,
		"page":        p.Page,
		"page_size":   p.PageSize,
	}
}
