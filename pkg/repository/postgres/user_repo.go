package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openboard/backend/pkg/auth"
	"github.com/openboard/backend/pkg/identity"
)

// UserRepository implements auth.UserRepository backed by PostgreSQL (pgx).
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	repo := &UserRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *UserRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'JOB_SEEKER',
			onboarding_complete BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		);
		-- backfill for older schemas
		ALTER TABLE users ADD COLUMN IF NOT EXISTS display_name TEXT NOT NULL DEFAULT '';
		ALTER TABLE users ADD COLUMN IF NOT EXISTS role TEXT NOT NULL DEFAULT 'JOB_SEEKER';
		ALTER TABLE users ADD COLUMN IF NOT EXISTS onboarding_complete BOOLEAN NOT NULL DEFAULT FALSE;
	`)
	return err
}

func (r *UserRepository) Create(ctx context.Context, user auth.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, role, onboarding_complete, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, strings.ToLower(user.Email), user.PasswordHash, user.DisplayName,
		string(user.Role), user.OnboardingComplete, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return auth.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	return r.get(ctx, `
		SELECT id, email, password_hash, display_name, role, onboarding_complete, created_at
		FROM users WHERE email = $1
	`, strings.ToLower(email))
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	return r.get(ctx, `
		SELECT id, email, password_hash, display_name, role, onboarding_complete, created_at
		FROM users WHERE id = $1
	`, id)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (auth.User, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	var user auth.User
	var role string
	var createdAt time.Time
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName,
		&role, &user.OnboardingComplete, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, err
	}
	user.Role = identity.Role(role)
	user.CreatedAt = createdAt.UTC()
	return user, nil
}

// CompleteOnboarding is conditional on the flag so the role is assigned at
// most once; a second attempt reports ErrOnboardingDone.
func (r *UserRepository) CompleteOnboarding(ctx context.Context, id uuid.UUID, role identity.Role, displayName string) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE users
		SET role = $2,
			display_name = COALESCE(NULLIF($3, ''), display_name),
			onboarding_complete = TRUE
		WHERE id = $1 AND onboarding_complete = FALSE
	`, id, string(role), displayName)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return auth.ErrOnboardingDone
	}
	return nil
}

// SetRole is the administrative override; it ignores the onboarding flag.
func (r *UserRepository) SetRole(ctx context.Context, id uuid.UUID, role identity.Role) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, string(role))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return auth.ErrNotFound
	}
	return nil
}
