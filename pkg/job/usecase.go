package job

import (
	"context"
	"log"
	"strings"

	"github.com/openboard/backend/pkg/guard"
	"github.com/openboard/backend/pkg/identity"
)

// Page is one listing page plus the counts computed alongside it.
type Page struct {
	Jobs       []Job
	Total      int
	TotalPages int
	Page       int
	PageSize   int
}

// UseCase composes the guard with the status state machine. Every mutation
// runs its guard check before touching any state.
type UseCase interface {
	Create(ctx context.Context, p identity.Principal, j Job) (Job, error)
	Update(ctx context.Context, p identity.Principal, j Job) (Job, error)
	Close(ctx context.Context, p identity.Principal, id int64, target Status) error
	Approve(ctx context.Context, p identity.Principal, id int64) error
	Reject(ctx context.Context, p identity.Principal, id int64) error
	Get(ctx context.Context, p *identity.Principal, id int64) (Job, error)
	ListPublic(ctx context.Context, f Filter, page, pageSize int) Page
	ListMine(ctx context.Context, p identity.Principal, page, pageSize int) Page
	ListPending(ctx context.Context, p identity.Principal, page, pageSize int) (Page, error)
}

type service struct {
	repo   Repository
	guards *guard.Guard
}

func NewService(repo Repository, g *guard.Guard) UseCase {
	return &service{repo: repo, guards: g}
}

func (s *service) Create(ctx context.Context, p identity.Principal, j Job) (Job, error) {
	if err := s.guards.RequireOnboarded(p, identity.RoleEmployer).Err(); err != nil {
		return Job{}, err
	}
	j.Title = strings.TrimSpace(j.Title)
	j.Company = strings.TrimSpace(j.Company)
	if err := j.Validate(); err != nil {
		return Job{}, err
	}
	j.EmployerID = p.ID
	// Creation always enters review; DRAFT has no creation path.
	j.Status = StatusPendingApproval
	return s.repo.Create(ctx, j)
}

func (s *service) Update(ctx context.Context, p identity.Principal, j Job) (Job, error) {
	if err := s.guards.RequireJobOwner(ctx, p, j.ID).Err(); err != nil {
		return Job{}, err
	}
	if err := j.Validate(); err != nil {
		return Job{}, err
	}
	current, err := s.repo.GetByID(ctx, j.ID)
	if err != nil {
		return Job{}, err
	}
	if !current.Status.Editable() {
		return Job{}, ErrNotEditable
	}
	// An edit never leaves changed content silently live: the repository
	// forces PENDING_APPROVAL in the same statement (a no-op for jobs
	// already pending).
	j.EmployerID = current.EmployerID
	return s.repo.UpdateContent(ctx, j)
}

func (s *service) Close(ctx context.Context, p identity.Principal, id int64, target Status) error {
	if err := s.guards.RequireJobOwner(ctx, p, id).Err(); err != nil {
		return err
	}
	if target != StatusFilled && target != StatusArchived {
		return ErrValidation("close target must be FILLED or ARCHIVED")
	}
	ok, err := s.repo.Close(ctx, id, target)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotClosable
	}
	return nil
}

func (s *service) Approve(ctx context.Context, p identity.Principal, id int64) error {
	return s.review(ctx, p, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, p identity.Principal, id int64) error {
	return s.review(ctx, p, id, StatusRejected)
}

// review performs the admin-only conditional transition out of
// PENDING_APPROVAL. When a concurrent admin already processed the job the
// update matches no row and the caller gets ErrNotPending, not a crash.
func (s *service) review(ctx context.Context, p identity.Principal, id int64, target Status) error {
	if err := s.guards.RequireRole(p, identity.RoleAdmin).Err(); err != nil {
		return err
	}
	ok, err := s.repo.SetStatusFromPending(ctx, id, target)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotPending
	}
	return nil
}

func (s *service) Get(ctx context.Context, p *identity.Principal, id int64) (Job, error) {
	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Job{}, err
	}
	if j.Status == StatusApproved {
		return j, nil
	}
	// Unpublished postings are visible to their owner and to admins only;
	// everyone else sees the same not-found as for a missing id.
	if p != nil && (p.ID == j.EmployerID || p.Role == identity.RoleAdmin) {
		return j, nil
	}
	return Job{}, ErrNotFound
}

func (s *service) ListPublic(ctx context.Context, f Filter, page, pageSize int) Page {
	return s.page(page, pageSize, func(limit, offset int) ([]Job, int, error) {
		return s.repo.ListPublic(ctx, f, limit, offset)
	})
}

func (s *service) ListMine(ctx context.Context, p identity.Principal, page, pageSize int) Page {
	return s.page(page, pageSize, func(limit, offset int) ([]Job, int, error) {
		return s.repo.ListByEmployer(ctx, p.ID, limit, offset)
	})
}

func (s *service) ListPending(ctx context.Context, p identity.Principal, page, pageSize int) (Page, error) {
	if err := s.guards.RequireRole(p, identity.RoleAdmin).Err(); err != nil {
		return Page{}, err
	}
	return s.page(page, pageSize, func(limit, offset int) ([]Job, int, error) {
		return s.repo.ListByStatus(ctx, StatusPendingApproval, limit, offset)
	}), nil
}

// page runs one listing query and degrades failures to an empty page with
// zero counts; listing pages stay usable when the store hiccups.
func (s *service) page(page, pageSize int, fetch func(limit, offset int) ([]Job, int, error)) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	jobs, total, err := fetch(pageSize, (page-1)*pageSize)
	if err != nil {
		log.Printf("job: listing failed: %v", err)
		return Page{Jobs: []Job{}, Page: page, PageSize: pageSize}
	}
	if jobs == nil {
		jobs = []Job{}
	}
	return Page{
		Jobs:       jobs,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
		Page:       page,
		PageSize:   pageSize,
	}
}
