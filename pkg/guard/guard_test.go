package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/backend/pkg/identity"
)

type ownerMap struct {
	owners map[int64]uuid.UUID
	err    error
}

func (o *ownerMap) OwnerOf(ctx context.Context, jobID int64) (uuid.UUID, error) {
	if o.err != nil {
		return uuid.Nil, o.err
	}
	owner, ok := o.owners[jobID]
	if !ok {
		return uuid.Nil, errors.New("no rows")
	}
	return owner, nil
}

func principal(role identity.Role) identity.Principal {
	return identity.Principal{ID: uuid.New(), Role: role, OnboardingComplete: true}
}

func TestRequireRole(t *testing.T) {
	g := New(&ownerMap{})

	d := g.RequireRole(principal(identity.RoleAdmin), identity.RoleAdmin)
	assert.True(t, d.Allowed)
	assert.NoError(t, d.Err())

	d = g.RequireRole(principal(identity.RoleEmployer), identity.RoleAdmin)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficientRole, d.Reason)

	var denied *DeniedError
	require.ErrorAs(t, d.Err(), &denied)
	assert.Equal(t, ReasonInsufficientRole, denied.Error())

	// Zero principal means no session at all.
	d = g.RequireRole(identity.Principal{}, identity.RoleAdmin)
	assert.Equal(t, ReasonNotAuthenticated, d.Reason)
}

func TestRequireOnboarded(t *testing.T) {
	g := New(&ownerMap{})

	p := principal(identity.RoleEmployer)
	assert.True(t, g.RequireOnboarded(p, identity.RoleEmployer).Allowed)

	p.OnboardingComplete = false
	d := g.RequireOnboarded(p, identity.RoleEmployer)
	assert.Equal(t, ReasonNotOnboarded, d.Reason)

	// Role is checked before onboarding.
	d = g.RequireOnboarded(p, identity.RoleAdmin)
	assert.Equal(t, ReasonInsufficientRole, d.Reason)
}

func TestRequireJobOwner(t *testing.T) {
	owner := principal(identity.RoleEmployer)
	g := New(&ownerMap{owners: map[int64]uuid.UUID{7: owner.ID}})

	assert.True(t, g.RequireJobOwner(context.Background(), owner, 7).Allowed)

	// A different employer and a missing job deny identically, so callers
	// cannot probe which jobs exist.
	other := principal(identity.RoleEmployer)
	d := g.RequireJobOwner(context.Background(), other, 7)
	assert.Equal(t, ReasonNotFoundOrOwner, d.Reason)
	d = g.RequireJobOwner(context.Background(), owner, 8)
	assert.Equal(t, ReasonNotFoundOrOwner, d.Reason)
}

func TestRequireJobOwnerLookupFailureDenies(t *testing.T) {
	g := New(&ownerMap{err: errors.New("connection refused")})
	d := g.RequireJobOwner(context.Background(), principal(identity.RoleEmployer), 7)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotFoundOrOwner, d.Reason)
}
