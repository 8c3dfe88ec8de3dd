package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/backend/pkg/identity"
	"github.com/openboard/backend/pkg/job"
)

// Walks the board's happy path and its refusals in one sequence: a posting
// opens for applications only after approval, a seeker applies exactly
// once, and the employer can never apply to their own posting.
func TestApplicationFlowScenario(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// The posting is still in review: nobody can apply yet.
	pending := fx.jobs.jobs[fx.jobID]
	pending.Status = job.StatusPendingApproval
	fx.jobs.jobs[fx.jobID] = pending
	_, err := fx.svc.Submit(ctx, fx.seeker, submitInput(fx.jobID))
	assert.ErrorIs(t, err, ErrNotAccepting)

	// Approved: the first application goes through as SUBMITTED.
	pending.Status = job.StatusApproved
	fx.jobs.jobs[fx.jobID] = pending
	a, err := fx.svc.Submit(ctx, fx.seeker, submitInput(fx.jobID))
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, a.Status)

	// The owning employer cannot apply to their own posting.
	_, err = fx.svc.Submit(ctx, fx.employer, submitInput(fx.jobID))
	assert.ErrorIs(t, err, ErrSelfApplication)

	// A second application from the same seeker is a duplicate.
	_, err = fx.svc.Submit(ctx, fx.seeker, submitInput(fx.jobID))
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, fx.repo.rows, 1)

	// The employer works the pipeline: first resume view marks VIEWED,
	// then an explicit decision.
	_, err = fx.svc.OpenResume(ctx, fx.employer, a.ID)
	require.NoError(t, err)
	require.NoError(t, fx.svc.SetStatus(ctx, fx.employer, a.ID, StatusInterviewing))
	require.NoError(t, fx.svc.SetStatus(ctx, fx.employer, a.ID, StatusHired))
	got, _ := fx.repo.GetByID(ctx, a.ID)
	assert.Equal(t, StatusHired, got.Status)

	// Once the employer edits the posting back into review, new seekers
	// are refused again.
	pending.Status = job.StatusPendingApproval
	fx.jobs.jobs[fx.jobID] = pending
	other := identity.Principal{ID: uuid.New(), Role: identity.RoleJobSeeker, OnboardingComplete: true}
	_, err = fx.svc.Submit(ctx, other, submitInput(fx.jobID))
	assert.ErrorIs(t, err, ErrNotAccepting)
}
