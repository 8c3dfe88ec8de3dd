package guard

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/openboard/backend/pkg/identity"
)

// Denial reasons surfaced to callers. Ownership failures deliberately read
// the same as missing resources so that probing ids leaks nothing.
const (
	ReasonNotAuthenticated = "please log in"
	ReasonInsufficientRole = "insufficient privileges"
	ReasonNotOnboarded     = "complete onboarding first"
	ReasonNotFoundOrOwner  = "not found or not authorized"
)

// Decision is the discriminated result of a guard check. Guards never
// return errors; infrastructure failures during a check become denials.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Err converts a denial into an error for use-case returns; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason}
}

// DeniedError carries the user-safe denial reason.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

// JobOwners resolves a job id to its owning employer id.
type JobOwners interface {
	OwnerOf(ctx context.Context, jobID int64) (uuid.UUID, error)
}

// Guard performs role and ownership checks. Every mutation runs one of
// these before touching any state.
type Guard struct {
	jobs JobOwners
}

func New(jobs JobOwners) *Guard { return &Guard{jobs: jobs} }

// RequireRole allows only principals holding exactly the required role.
func (g *Guard) RequireRole(p identity.Principal, required identity.Role) Decision {
	if p.ID == uuid.Nil {
		return deny(ReasonNotAuthenticated)
	}
	if p.Role != required {
		return deny(ReasonInsufficientRole)
	}
	return allow()
}

// RequireOnboarded additionally demands a finished onboarding, so that a
// fresh account cannot post or apply before choosing a role.
func (g *Guard) RequireOnboarded(p identity.Principal, required identity.Role) Decision {
	if d := g.RequireRole(p, required); !d.Allowed {
		return d
	}
	if !p.OnboardingComplete {
		return deny(ReasonNotOnboarded)
	}
	return allow()
}

// RequireJobOwner allows only the employer owning the job. Missing jobs,
// foreign jobs and lookup failures all deny with the same reason.
func (g *Guard) RequireJobOwner(ctx context.Context, p identity.Principal, jobID int64) Decision {
	if p.ID == uuid.Nil {
		return deny(ReasonNotAuthenticated)
	}
	owner, err := g.jobs.OwnerOf(ctx, jobID)
	if err != nil {
		log.Printf("guard: owner lookup for job %d: %v", jobID, err)
		return deny(ReasonNotFoundOrOwner)
	}
	if owner != p.ID {
		return deny(ReasonNotFoundOrOwner)
	}
	return allow()
}
