package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/openboard/backend/pkg/identity"
)

// User is a domain entity representing a system user.
type User struct {
	ID                 uuid.UUID
	Email              string
	PasswordHash       string
	DisplayName        string
	Role               identity.Role
	OnboardingComplete bool
	CreatedAt          time.Time
}

// Principal converts the stored user into a request principal.
func (u User) Principal() identity.Principal {
	return identity.Principal{
		ID:                 u.ID,
		Email:              u.Email,
		Role:               u.Role,
		OnboardingComplete: u.OnboardingComplete,
	}
}
