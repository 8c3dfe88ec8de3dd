package identity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Role is a closed set. Role checks go through this type so that string
// comparisons do not spread across call sites.
type Role string

const (
	RoleJobSeeker Role = "JOB_SEEKER"
	RoleEmployer  Role = "EMPLOYER"
	RoleAdmin     Role = "ADMIN"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates a stored or client-supplied role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Principal is the resolved caller identity for a single request. It is
// built once by the auth middleware and passed into use cases explicitly;
// nothing below the HTTP layer reads ambient session state.
type Principal struct {
	ID                 uuid.UUID
	Email              string
	Role               Role
	OnboardingComplete bool
}
