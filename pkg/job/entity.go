package job

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobType is the employment kind of a posting.
type JobType string

const (
	TypeFullTime   JobType = "FULL_TIME"
	TypePartTime   JobType = "PART_TIME"
	TypeContract   JobType = "CONTRACT"
	TypeInternship JobType = "INTERNSHIP"
	TypeTemporary  JobType = "TEMPORARY"
)

func (t JobType) Valid() bool {
	switch t {
	case TypeFullTime, TypePartTime, TypeContract, TypeInternship, TypeTemporary:
		return true
	}
	return false
}

const maxTags = 5

// Job is a posting created by an employer, subject to administrative
// approval before public visibility. Never hard-deleted.
type Job struct {
	ID             int64
	EmployerID     uuid.UUID
	Title          string
	Company        string
	Location       string
	Remote         bool
	Type           JobType
	SalaryMin      *int64
	SalaryMax      *int64
	SalaryCurrency string
	Description    string
	Requirements   string
	ApplyEmail     string
	ApplyURL       string
	Tags           []string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ErrValidation carries a user-safe validation message.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }

var (
	ErrNotFound = errors.New("job not found")
	// ErrNotPending reports that the conditional approve/reject update
	// matched no row: the job was no longer PENDING_APPROVAL.
	ErrNotPending = errors.New("job is not pending approval")
	// ErrNotEditable reports an edit attempt on a closed posting.
	ErrNotEditable = errors.New("job is no longer editable")
	ErrNotClosable = errors.New("only approved jobs can be closed")
)

// Validate checks the content fields; status is owned by the state machine
// and is not validated here.
func (j Job) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return ErrValidation("title is required")
	}
	if strings.TrimSpace(j.Company) == "" {
		return ErrValidation("company is required")
	}
	if strings.TrimSpace(j.Location) == "" {
		return ErrValidation("location is required")
	}
	if !j.Type.Valid() {
		return ErrValidation("unknown job type")
	}
	if strings.TrimSpace(j.Description) == "" {
		return ErrValidation("description is required")
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax {
		return ErrValidation("salary minimum exceeds maximum")
	}
	if (j.SalaryMin != nil || j.SalaryMax != nil) && strings.TrimSpace(j.SalaryCurrency) == "" {
		return ErrValidation("salary currency is required when a range is set")
	}
	if strings.TrimSpace(j.ApplyEmail) == "" && strings.TrimSpace(j.ApplyURL) == "" {
		return ErrValidation("an application email or URL is required")
	}
	if len(j.Tags) > maxTags {
		return ErrValidation("at most 5 tags are allowed")
	}
	return nil
}

// Filter narrows public listings.
type Filter struct {
	Query    string // matches title or company, case-insensitive substring
	Location string
	Type     JobType
	Remote   *bool
}

// Repository is the persistence port for jobs.
type Repository interface {
	Create(ctx context.Context, j Job) (Job, error)
	GetByID(ctx context.Context, id int64) (Job, error)
	OwnerOf(ctx context.Context, id int64) (uuid.UUID, error)
	// UpdateContent rewrites the owner-editable fields and forces the
	// status to PENDING_APPROVAL in the same statement. Jobs in a terminal
	// status are not matched; zero rows affected yields ErrNotFound.
	UpdateContent(ctx context.Context, j Job) (Job, error)
	// SetStatusFromPending performs the conditional transition out of
	// PENDING_APPROVAL. It reports false (not an error) when the job was
	// already processed by a concurrent actor.
	SetStatusFromPending(ctx context.Context, id int64, target Status) (bool, error)
	// Close moves an APPROVED job into FILLED or ARCHIVED.
	Close(ctx context.Context, id int64, target Status) (bool, error)
	ListPublic(ctx context.Context, f Filter, limit, offset int) ([]Job, int, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID, limit, offset int) ([]Job, int, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]Job, int, error)
}
