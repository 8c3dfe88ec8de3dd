package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openboard/backend/pkg/identity"
)

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	Register(ctx context.Context, email, password, displayName string) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (AuthResult, error)
	// Logout revokes the refresh session; the access token simply ages out.
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (User, error)
	// CompleteOnboarding assigns the caller's role exactly once and
	// reissues tokens so the new role is visible immediately.
	CompleteOnboarding(ctx context.Context, userID uuid.UUID, role identity.Role, displayName string) (AuthResult, error)
	// OverrideRole is the administrative escape hatch; the caller must have
	// been cleared by the guard before this is invoked.
	OverrideRole(ctx context.Context, userID uuid.UUID, role identity.Role) error
}

type AuthResult struct {
	User         User
	Token        string
	RefreshToken string
}

type authService struct {
	repo     UserRepository
	tokens   TokenGenerator
	sessions SessionStore
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, tokens TokenGenerator, sessions SessionStore) AuthUseCase {
	return &authService{repo: repo, tokens: tokens, sessions: sessions}
}

func (s *authService) Register(ctx context.Context, email, password, displayName string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	// If user exists, fail fast (best-effort check; the unique index on
	// email is the actual guarantee)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrUserAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	user := User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(passwordHash),
		DisplayName:  strings.TrimSpace(displayName),
		// Role is assigned during onboarding, not at registration.
		Role:      identity.RoleJobSeeker,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if refreshToken == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	userIDStr, newToken, err := s.sessions.Rotate(ctx, refreshToken)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token, RefreshToken: newToken}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrInvalidCredentials
	}
	return s.sessions.Revoke(ctx, refreshToken)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *authService) CompleteOnboarding(ctx context.Context, userID uuid.UUID, role identity.Role, displayName string) (AuthResult, error) {
	if !role.Valid() || role == identity.RoleAdmin {
		// Admins are not self-service.
		return AuthResult{}, identity.ErrUnknownRole
	}
	if err := s.repo.CompleteOnboarding(ctx, userID, role, strings.TrimSpace(displayName)); err != nil {
		return AuthResult{}, err
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) OverrideRole(ctx context.Context, userID uuid.UUID, role identity.Role) error {
	if !role.Valid() {
		return identity.ErrUnknownRole
	}
	return s.repo.SetRole(ctx, userID, role)
}

func (s *authService) issueTokens(ctx context.Context, user User) (AuthResult, error) {
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}
	refresh, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token, RefreshToken: refresh}, nil
}
