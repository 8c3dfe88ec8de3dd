package application

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openboard/backend/pkg/guard"
	"github.com/openboard/backend/pkg/identity"
)

// SubmitInput is everything a seeker sends with one application.
type SubmitInput struct {
	JobID          int64
	CoverLetter    string
	LinkedInURL    string
	ResumeFilename string
	Resume         []byte
}

// Page is one listing page plus the counts computed alongside it.
type Page struct {
	Applications []Application
	Total        int
	TotalPages   int
	Page         int
	PageSize     int
}

// UseCase composes the guard with the application status machine.
type UseCase interface {
	Submit(ctx context.Context, p identity.Principal, in SubmitInput) (Application, error)
	// OpenResume returns a servable file path for the resume and performs
	// the one-time SUBMITTED -> VIEWED transition as a side effect.
	OpenResume(ctx context.Context, p identity.Principal, id uuid.UUID) (string, error)
	SetStatus(ctx context.Context, p identity.Principal, id uuid.UUID, target Status) error
	ListForJob(ctx context.Context, p identity.Principal, jobID int64, page, pageSize int) (Page, error)
	ListMine(ctx context.Context, p identity.Principal, page, pageSize int) Page
}

type service struct {
	repo   Repository
	jobs   JobSource
	files  ResumeStore
	events EventSink
	guards *guard.Guard
}

func NewService(repo Repository, jobs JobSource, files ResumeStore, events EventSink, g *guard.Guard) UseCase {
	return &service{repo: repo, jobs: jobs, files: files, events: events, guards: g}
}

func (s *service) Submit(ctx context.Context, p identity.Principal, in SubmitInput) (Application, error) {
	if p.ID == uuid.Nil {
		return Application{}, &guard.DeniedError{Reason: guard.ReasonNotAuthenticated}
	}
	if !p.OnboardingComplete {
		return Application{}, &guard.DeniedError{Reason: guard.ReasonNotOnboarded}
	}
	if len(in.Resume) == 0 {
		return Application{}, ErrValidation("a resume file is required")
	}
	if len(in.CoverLetter) > maxCoverLetterLen {
		return Application{}, ErrValidation("cover letter is too long")
	}
	if u := strings.TrimSpace(in.LinkedInURL); u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return Application{}, ErrValidation("linkedin URL must be absolute")
	}

	j, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return Application{}, ErrNotAccepting
	}
	if !j.Status.AcceptsApplications() {
		return Application{}, ErrNotAccepting
	}
	// The owner is told they cannot apply to their own posting; every other
	// non-seeker is a plain role denial.
	if j.EmployerID == p.ID {
		return Application{}, ErrSelfApplication
	}
	if p.Role != identity.RoleJobSeeker {
		return Application{}, &guard.DeniedError{Reason: guard.ReasonInsufficientRole}
	}
	// Fast path only: the unique index on (job_id, seeker_id) is the
	// correctness guarantee against a concurrent duplicate.
	if exists, err := s.repo.Exists(ctx, in.JobID, p.ID); err == nil && exists {
		return Application{}, ErrDuplicate
	}

	path, err := s.files.Save(ctx, in.ResumeFilename, in.Resume)
	if err != nil {
		return Application{}, err
	}
	a := Application{
		ID:          uuid.New(),
		JobID:       in.JobID,
		SeekerID:    p.ID,
		CoverLetter: in.CoverLetter,
		ResumePath:  path,
		LinkedInURL: strings.TrimSpace(in.LinkedInURL),
		Status:      StatusSubmitted,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		// Do not leave an orphaned file behind a failed insert.
		if rmErr := s.files.Remove(ctx, path); rmErr != nil {
			log.Printf("application: cleanup of %s after failed insert: %v", path, rmErr)
		}
		return Application{}, err
	}
	s.events.Emit("application_submitted", map[string]any{
		"application_id": a.ID.String(),
		"job_id":         a.JobID,
	})
	return a, nil
}

func (s *service) OpenResume(ctx context.Context, p identity.Principal, id uuid.UUID) (string, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", ErrNotFound
	}
	if err := s.guards.RequireJobOwner(ctx, p, a.JobID).Err(); err != nil {
		return "", err
	}
	// First view flips SUBMITTED to VIEWED; the conditional update makes
	// repeat views a no-op.
	if _, err := s.repo.MarkViewed(ctx, id); err != nil {
		log.Printf("application: mark viewed %s: %v", id, err)
	}
	return s.files.Resolve(a.ResumePath)
}

func (s *service) SetStatus(ctx context.Context, p identity.Principal, id uuid.UUID, target Status) error {
	if !target.EmployerSettable() {
		return ErrValidation("status cannot be set to " + string(target))
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.guards.RequireJobOwner(ctx, p, a.JobID).Err(); err != nil {
		return err
	}
	if a.Status == target {
		return nil
	}
	return s.repo.SetStatus(ctx, id, target)
}

func (s *service) ListForJob(ctx context.Context, p identity.Principal, jobID int64, page, pageSize int) (Page, error) {
	if err := s.guards.RequireJobOwner(ctx, p, jobID).Err(); err != nil {
		return Page{}, err
	}
	return s.page(page, pageSize, func(limit, offset int) ([]Application, int, error) {
		return s.repo.ListByJob(ctx, jobID, limit, offset)
	}), nil
}

func (s *service) ListMine(ctx context.Context, p identity.Principal, page, pageSize int) Page {
	return s.page(page, pageSize, func(limit, offset int) ([]Application, int, error) {
		return s.repo.ListBySeeker(ctx, p.ID, limit, offset)
	})
}

// page degrades query failures to an empty page with zero counts.
func (s *service) page(page, pageSize int, fetch func(limit, offset int) ([]Application, int, error)) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	items, total, err := fetch(pageSize, (page-1)*pageSize)
	if err != nil {
		log.Printf("application: listing failed: %v", err)
		return Page{Applications: []Application{}, Page: page, PageSize: pageSize}
	}
	if items == nil {
		items = []Application{}
	}
	return Page{
		Applications: items,
		Total:        total,
		TotalPages:   (total + pageSize - 1) / pageSize,
		Page:         page,
		PageSize:     pageSize,
	}
}
