package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/openboard/backend/api/http/presenter"
	"github.com/openboard/backend/pkg/auth"
	"github.com/openboard/backend/pkg/identity"
	"github.com/openboard/backend/pkg/security/jwt"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	result, err := h.useCase.Register(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserAlreadyExists):
			return presenter.Error(c, http.StatusConflict, "user already exists")
		case errors.Is(err, auth.ErrInvalidCredentials):
			return presenter.Error(c, http.StatusBadRequest, "email and password are required")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to register user")
		}
	}

	return presenter.JSON(c, http.StatusCreated, authResultResponse(result))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	result, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to login")
	}

	return presenter.JSON(c, http.StatusOK, authResultResponse(result))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates a refresh token into a fresh token pair.
// @Summary Refresh session
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body refreshRequest true "refresh payload"
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	result, err := h.useCase.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "invalid or expired session")
	}
	return presenter.JSON(c, http.StatusOK, authResultResponse(result))
}

// Logout revokes the presented refresh session.
// @Summary Logout
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body refreshRequest true "refresh token to revoke"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if err := h.useCase.Logout(c.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return presenter.Error(c, http.StatusBadRequest, "a refresh token is required")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to logout")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"success": true})
}

// Me returns the caller's profile.
// @Summary Current user
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	user, err := h.useCase.Me(c.Context(), p.ID)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	return presenter.JSON(c, http.StatusOK, userResponse(user))
}

type onboardingRequest struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// CompleteOnboarding assigns the caller's role exactly once.
// @Summary Complete onboarding
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body onboardingRequest true "role selection"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /auth/onboarding [post]
func (h *AuthHandler) CompleteOnboarding(c *fiber.Ctx) error {
	p, ok := jwt.Principal(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "please log in")
	}
	var req onboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "role must be JOB_SEEKER or EMPLOYER")
	}
	result, err := h.useCase.CompleteOnboarding(c.Context(), p.ID, role, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUnknownRole):
			return presenter.Error(c, http.StatusBadRequest, "role must be JOB_SEEKER or EMPLOYER")
		case errors.Is(err, auth.ErrOnboardingDone):
			return presenter.Error(c, http.StatusConflict, "onboarding already completed")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to complete onboarding")
		}
	}
	return presenter.JSON(c, http.StatusOK, authResultResponse(result))
}

func authResultResponse(r auth.AuthResult) fiber.Map {
	return fiber.Map{
		"success":       true,
		"user":          userResponse(r.User),
		"token":         r.Token,
		"refresh_token": r.RefreshToken,
	}
}

func userResponse(u auth.User) fiber.Map {
	return fiber.Map{
		"id":                  u.ID.String(),
		"email":               u.Email,
		"name":                u.DisplayName,
		"role":                string(u.Role),
		"onboarding_complete": u.OnboardingComplete,
		"created_at":          u.CreatedAt,
	}
}
