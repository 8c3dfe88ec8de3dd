package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/openboard/backend/api/http/presenter"
	"github.com/openboard/backend/pkg/auth"
	"github.com/openboard/backend/pkg/guard"
	"github.com/openboard/backend/pkg/identity"
	"github.com/openboard/backend/pkg/job"
	"github.com/openboard/backend/pkg/security/jwt"
)

// AdminHandler serves the moderation surface: the pending queue, the
// approve/reject transitions and the role override.
type AdminHandler struct {
	jobs   job.UseCase
	users  auth.AuthUseCase
	guards *guard.Guard
}

func NewAdminHandler(jobs job.UseCase, users auth.AuthUseCase, g *guard.Guard) *AdminHandler {
	return &AdminHandler{jobs: jobs, users: users, guards: g}
}

// ListPending returns the review queue.
// @Summary List jobs pending approval
// @Tags    admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /admin/jobs/pending [get]
func (h *AdminHandler) ListPending(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	page, pageSize := parsePage(c)
	result, err := h.jobs.ListPending(c.Context(), p, page, pageSize)
	if err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, pageResponse(result))
}

// Approve publishes a pending job.
// @Summary Approve job
// @Tags    admin
// @Produce json
// @Param   id path int true "job id"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /admin/jobs/{id}/approve [post]
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.jobs.Approve)
}

// Reject declines a pending job.
// @Summary Reject job
// @Tags    admin
// @Produce json
// @Param   id path int true "job id"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /admin/jobs/{id}/reject [post]
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, h.jobs.Reject)
}

func (h *AdminHandler) review(c *fiber.Ctx, op func(ctx context.Context, p identity.Principal, id int64) error) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	id, err := parseJobID(c)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	if err := op(c.Context(), p, id); err != nil {
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"success": true})
}

type roleOverrideRequest struct {
	Role string `json:"role"`
}

// OverrideRole is the administrative escape hatch for the otherwise
// immutable post-onboarding role.
// @Summary Override user role
// @Tags    admin
// @Accept  json
// @Produce json
// @Param   id path string true "user id (UUID)"
// @Param   input body roleOverrideRequest true "new role"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /admin/users/{id}/role [put]
func (h *AdminHandler) OverrideRole(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	if err := h.guards.RequireRole(p, identity.RoleAdmin).Err(); err != nil {
		return domainError(c, err)
	}
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid user id")
	}
	var req roleOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "unknown role")
	}
	if err := h.users.OverrideRole(c.Context(), userID, role); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "user not found")
		}
		return domainError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"success": true})
}
