package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openboard/backend/pkg/identity"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{users: map[uuid.UUID]User{}} }

func (f *fakeUsers) Create(ctx context.Context, u User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return ErrUserAlreadyExists
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) CompleteOnboarding(ctx context.Context, id uuid.UUID, role identity.Role, displayName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	if u.OnboardingComplete {
		return ErrOnboardingDone
	}
	u.Role = role
	u.OnboardingComplete = true
	if displayName != "" {
		u.DisplayName = displayName
	}
	f.users[id] = u
	return nil
}

func (f *fakeUsers) SetRole(ctx context.Context, id uuid.UUID, role identity.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	f.users[id] = u
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Generate(ctx context.Context, user User) (string, error) {
	return "access-" + user.ID.String(), nil
}

// fakeSessions mirrors the redis store: opaque tokens, single use on
// rotation, gone after revocation.
type fakeSessions struct {
	mu     sync.Mutex
	seq    int
	tokens map[string]string
}

func newFakeSessions() *fakeSessions { return &fakeSessions{tokens: map[string]string{}} }

func (f *fakeSessions) Issue(ctx context.Context, user User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	token := fmt.Sprintf("refresh-%d", f.seq)
	f.tokens[token] = user.ID.String()
	return token, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, refreshToken string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.tokens[refreshToken]
	if !ok {
		return "", "", ErrNotFound
	}
	delete(f.tokens, refreshToken)
	f.seq++
	token := fmt.Sprintf("refresh-%d", f.seq)
	f.tokens[token] = userID
	return userID, token, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, refreshToken)
	return nil
}

func newAuthFixture(t *testing.T) (AuthUseCase, *fakeSessions) {
	t.Helper()
	sessions := newFakeSessions()
	return NewAuthService(newFakeUsers(), fakeTokens{}, sessions), sessions
}

func TestRefreshRotatesSingleUse(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "someone@mail.test", "secret", "Someone")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, reg.User.ID, rotated.User.ID)

	// The presented token was consumed by the rotation.
	_, err = svc.Refresh(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "someone@mail.test", "secret", "Someone")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, reg.RefreshToken))
	assert.Empty(t, sessions.tokens)

	_, err = svc.Refresh(ctx, reg.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, svc.Logout(ctx, ""), ErrInvalidCredentials)
}
