package job

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/backend/pkg/guard"
	"github.com/openboard/backend/pkg/identity"
)

// fakeRepo is an in-memory job.Repository with the same conditional-update
// semantics as the Postgres implementation.
type fakeRepo struct {
	mu      sync.Mutex
	seq     int64
	jobs    map[int64]Job
	listErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{jobs: map[int64]Job{}}
}

func (f *fakeRepo) Create(ctx context.Context, j Job) (Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	j.ID = f.seq
	f.jobs[j.ID] = j
	return j, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return j, nil
}

func (f *fakeRepo) OwnerOf(ctx context.Context, id int64) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return uuid.Nil, ErrNotFound
	}
	return j.EmployerID, nil
}

func (f *fakeRepo) UpdateContent(ctx context.Context, j Job) (Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.jobs[j.ID]
	if !ok || current.Status.Terminal() {
		return Job{}, ErrNotFound
	}
	j.EmployerID = current.EmployerID
	j.Status = StatusPendingApproval
	j.CreatedAt = current.CreatedAt
	f.jobs[j.ID] = j
	return j, nil
}

func (f *fakeRepo) SetStatusFromPending(ctx context.Context, id int64, target Status) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok || j.Status != StatusPendingApproval {
		return false, nil
	}
	j.Status = target
	f.jobs[id] = j
	return true, nil
}

func (f *fakeRepo) Close(ctx context.Context, id int64, target Status) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok || j.Status != StatusApproved {
		return false, nil
	}
	j.Status = target
	f.jobs[id] = j
	return true, nil
}

func (f *fakeRepo) ListPublic(ctx context.Context, filter Filter, limit, offset int) ([]Job, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []Job
	for _, j := range f.jobs {
		if j.Status != StatusApproved {
			continue
		}
		if q := strings.ToLower(filter.Query); q != "" &&
			!strings.Contains(strings.ToLower(j.Title), q) &&
			!strings.Contains(strings.ToLower(j.Company), q) {
			continue
		}
		all = append(all, j)
	}
	return window(all, limit, offset), len(all), nil
}

func (f *fakeRepo) ListByEmployer(ctx context.Context, employerID uuid.UUID, limit, offset int) ([]Job, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []Job
	for _, j := range f.jobs {
		if j.EmployerID == employerID {
			all = append(all, j)
		}
	}
	return window(all, limit, offset), len(all), nil
}

func (f *fakeRepo) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]Job, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []Job
	for _, j := range f.jobs {
		if j.Status == status {
			all = append(all, j)
		}
	}
	return window(all, limit, offset), len(all), nil
}

func window(all []Job, limit, offset int) []Job {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func employer() identity.Principal {
	return identity.Principal{ID: uuid.New(), Email: "e@acme.test", Role: identity.RoleEmployer, OnboardingComplete: true}
}

func admin() identity.Principal {
	return identity.Principal{ID: uuid.New(), Email: "a@board.test", Role: identity.RoleAdmin, OnboardingComplete: true}
}

func seeker() identity.Principal {
	return identity.Principal{ID: uuid.New(), Email: "s@mail.test", Role: identity.RoleJobSeeker, OnboardingComplete: true}
}

func validJob() Job {
	return Job{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Berlin",
		Type:        TypeFullTime,
		Description: "Build things",
		ApplyEmail:  "jobs@acme.test",
	}
}

func newService(t *testing.T) (UseCase, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewService(repo, guard.New(repo)), repo
}

func TestCreateEntersReview(t *testing.T) {
	svc, _ := newService(t)
	emp := employer()

	created, err := svc.Create(context.Background(), emp, validJob())
	require.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, created.Status)
	assert.Equal(t, emp.ID, created.EmployerID)
	assert.NotZero(t, created.ID)
}

func TestCreateRequiresOnboardedEmployer(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), seeker(), validJob())
	var denied *guard.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, guard.ReasonInsufficientRole, denied.Reason)

	emp := employer()
	emp.OnboardingComplete = false
	_, err = svc.Create(context.Background(), emp, validJob())
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, guard.ReasonNotOnboarded, denied.Reason)
}

func TestApproveOnlyFromPending(t *testing.T) {
	svc, repo := newService(t)
	emp := employer()
	created, err := svc.Create(context.Background(), emp, validJob())
	require.NoError(t, err)

	require.NoError(t, svc.Approve(context.Background(), admin(), created.ID))
	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)

	// Already processed: the conditional update matches nothing.
	err = svc.Approve(context.Background(), admin(), created.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	err = svc.Reject(context.Background(), admin(), created.ID)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestApproveDeniedForNonAdmins(t *testing.T) {
	svc, _ := newService(t)
	emp := employer()
	created, err := svc.Create(context.Background(), emp, validJob())
	require.NoError(t, err)

	var denied *guard.DeniedError
	require.ErrorAs(t, svc.Approve(context.Background(), emp, created.ID), &denied)
	assert.Equal(t, guard.ReasonInsufficientRole, denied.Reason)
}

func TestConcurrentApproveSingleWinner(t *testing.T) {
	svc, _ := newService(t)
	created, err := svc.Create(context.Background(), employer(), validJob())
	require.NoError(t, err)

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Approve(context.Background(), admin(), created.ID)
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
		} else if errors.Is(err, ErrNotPending) {
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, losses)
}

func TestEditRevertsToPending(t *testing.T) {
	svc, repo := newService(t)
	emp := employer()
	created, err := svc.Create(context.Background(), emp, validJob())
	require.NoError(t, err)

	for _, from := range []Status{StatusApproved, StatusRejected, StatusDraft, StatusPendingApproval} {
		j, _ := repo.GetByID(context.Background(), created.ID)
		j.Status = from
		repo.jobs[j.ID] = j

		edit := validJob()
		edit.ID = created.ID
		edit.Title = "Senior Backend Engineer"
		updated, err := svc.Update(context.Background(), emp, edit)
		require.NoError(t, err, "from %s", from)
		assert.Equal(t, StatusPendingApproval, updated.Status, "from %s", from)
		assert.Equal(t, "Senior Backend Engineer", updated.Title)
	}
}

func TestEditRefusedForTerminalStatuses(t *testing.T) {
	svc, repo := newService(t)
	emp := employer()
	created, err := svc.Create(context.Background(), emp, validJob())
	require.NoError(t, err)

	for _, from := range []Status{StatusArchived, StatusFilled} {
		j, _ := repo.GetByID(context.Background(), created.ID)
		j.Status = from
		repo.jobs[j.ID] = j

		edit := validJob()
		edit.ID = created.ID
		_, err := svc.Update(context.Background(), emp, edit)
		assert.ErrorIs(t, err, ErrNotEditable, "from %s", from)
	}
}

func TestEditDeniedForNonOwner(t *testing.T) {
	svc, _ := newService(t)
	created, err := svc.Create(context.Background(), employer(), validJob())
	require.NoError(t, err)

	edit := validJob()
	edit.ID = created.ID
	_, err = svc.Update(context.Background(), employer(), edit)
	var denied *guard.DeniedError
	require.ErrorAs(t, err, &denied)
	// Foreign jobs read like missing jobs.
	assert.Equal(t, guard.ReasonNotFoundOrOwner, denied.Reason)
}

func TestCloseOnlyApprovedJobs(t *testing.T) {
	svc, _ := newService(t)
	emp := employer()
	created, err := svc.Create(context.Background(), emp, validJob())
	require.NoError(t, err)

	err = svc.Close(context.Background(), emp, created.ID, StatusFilled)
	assert.ErrorIs(t, err, ErrNotClosable)

	require.NoError(t, svc.Approve(context.Background(), admin(), created.ID))
	require.NoError(t, svc.Close(context.Background(), emp, created.ID, StatusFilled))

	// Terminal: no second close, no reopen via edit.
	err = svc.Close(context.Background(), emp, created.ID, StatusArchived)
	assert.ErrorIs(t, err, ErrNotClosable)
}

func TestGetVisibility(t *testing.T) {
	svc, _ := newService(t)
	emp := employer()
	created, err := svc.Create(context.Background(), emp, validJob())
	require.NoError(t, err)

	// Pending: invisible to the public and to other users.
	_, err = svc.Get(context.Background(), nil, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	other := seeker()
	_, err = svc.Get(context.Background(), &other, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Owner and admin see it.
	_, err = svc.Get(context.Background(), &emp, created.ID)
	assert.NoError(t, err)
	adm := admin()
	_, err = svc.Get(context.Background(), &adm, created.ID)
	assert.NoError(t, err)

	// Approved: public.
	require.NoError(t, svc.Approve(context.Background(), adm, created.ID))
	_, err = svc.Get(context.Background(), nil, created.ID)
	assert.NoError(t, err)
}

func TestPublicListingShowsOnlyApproved(t *testing.T) {
	svc, _ := newService(t)
	emp := employer()
	adm := admin()

	approved, err := svc.Create(context.Background(), emp, validJob())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), adm, approved.ID))
	_, err = svc.Create(context.Background(), emp, validJob())
	require.NoError(t, err)

	page := svc.ListPublic(context.Background(), Filter{}, 1, 20)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, approved.ID, page.Jobs[0].ID)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	// Editing takes the posting off the board until re-approved.
	edit := validJob()
	edit.ID = approved.ID
	_, err = svc.Update(context.Background(), emp, edit)
	require.NoError(t, err)
	page = svc.ListPublic(context.Background(), Filter{}, 1, 20)
	assert.Empty(t, page.Jobs)
	assert.Zero(t, page.Total)
}

func TestListingDegradesToEmptyPage(t *testing.T) {
	svc, repo := newService(t)
	repo.listErr = errors.New("connection refused")

	page := svc.ListPublic(context.Background(), Filter{}, 3, 10)
	assert.NotNil(t, page.Jobs)
	assert.Empty(t, page.Jobs)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.TotalPages)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 10, page.PageSize)
}

func TestListPendingRequiresAdmin(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ListPending(context.Background(), employer(), 1, 20)
	var denied *guard.DeniedError
	require.ErrorAs(t, err, &denied)

	_, err = svc.ListPending(context.Background(), admin(), 1, 20)
	assert.NoError(t, err)
}
