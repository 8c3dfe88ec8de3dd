package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/openboard/backend/pkg/identity"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOnboardingDone     = errors.New("onboarding already completed")
)

// UserRepository abstracts persistence concerns from the domain layer.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// CompleteOnboarding sets the role and flips the completion flag only
	// when onboarding is still open; returns ErrOnboardingDone otherwise.
	CompleteOnboarding(ctx context.Context, id uuid.UUID, role identity.Role, displayName string) error
	// SetRole is the administrative override; it ignores the onboarding flag.
	SetRole(ctx context.Context, id uuid.UUID, role identity.Role) error
}
