package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const maxCoverLetterLen = 2000

// Application is a seeker's submission against one job. Created once;
// status-only mutations afterwards; never deleted.
type Application struct {
	ID          uuid.UUID
	JobID       int64
	SeekerID    uuid.UUID
	CoverLetter string
	ResumePath  string
	LinkedInURL string
	Status      Status
	CreatedAt   time.Time
}

var (
	ErrNotFound = errors.New("application not found")
	// ErrDuplicate is returned both by the fast-path existence check and by
	// the unique-index conflict mapping; the index is the actual guarantee.
	ErrDuplicate       = errors.New("you have already applied to this job")
	ErrNotAccepting    = errors.New("this job is not accepting applications")
	ErrSelfApplication = errors.New("you cannot apply to your own job")
)

// ErrValidation carries a user-safe validation message.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }

// Repository is the persistence port for applications.
type Repository interface {
	// Create inserts the row; a (job_id, seeker_id) conflict maps to
	// ErrDuplicate.
	Create(ctx context.Context, a Application) error
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	Exists(ctx context.Context, jobID int64, seekerID uuid.UUID) (bool, error)
	// MarkViewed flips SUBMITTED to VIEWED conditionally; it reports false
	// when the application was not in SUBMITTED (the repeat-view no-op).
	MarkViewed(ctx context.Context, id uuid.UUID) (bool, error)
	SetStatus(ctx context.Context, id uuid.UUID, s Status) error
	ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]Application, int, error)
	ListBySeeker(ctx context.Context, seekerID uuid.UUID, limit, offset int) ([]Application, int, error)
}
