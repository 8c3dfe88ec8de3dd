package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openboard/backend/pkg/application"
)

const applicationColumns = `id, job_id, seeker_id, cover_letter, resume_path,
	linkedin_url, status, created_at`

// ApplicationRepository implements application.Repository backed by
// PostgreSQL (pgx). The UNIQUE (job_id, seeker_id) index is what actually
// prevents duplicate submissions under concurrency.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) (*ApplicationRepository, error) {
	r := &ApplicationRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ApplicationRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS applications (
	id UUID PRIMARY KEY,
	job_id BIGINT NOT NULL REFERENCES jobs(id),
	seeker_id UUID NOT NULL REFERENCES users(id),
	cover_letter TEXT NOT NULL DEFAULT '',
	resume_path TEXT NOT NULL,
	linkedin_url TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'SUBMITTED',
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (job_id, seeker_id)
);
CREATE INDEX IF NOT EXISTS idx_applications_job ON applications(job_id);
CREATE INDEX IF NOT EXISTS idx_applications_seeker ON applications(seeker_id);
`)
	return err
}

func (r *ApplicationRepository) Create(ctx context.Context, a application.Application) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO applications (id, job_id, seeker_id, cover_letter, resume_path, linkedin_url, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, a.ID, a.JobID, a.SeekerID, a.CoverLetter, a.ResumePath, a.LinkedInURL, string(a.Status), a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return application.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) Exists(ctx context.Context, jobID int64, seekerID uuid.UUID) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1 FROM applications WHERE job_id = $1 AND seeker_id = $2
`, jobID, seekerID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MarkViewed fires only while the row is still SUBMITTED, so the first
// view transitions exactly once and repeats are no-ops.
func (r *ApplicationRepository) MarkViewed(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE applications SET status = 'VIEWED' WHERE id = $1 AND status = 'SUBMITTED'
`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ApplicationRepository) SetStatus(ctx context.Context, id uuid.UUID, s application.Status) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, id, string(s))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]application.Application, int, error) {
	return r.list(ctx, "job_id = $1", jobID, limit, offset)
}

func (r *ApplicationRepository) ListBySeeker(ctx context.Context, seekerID uuid.UUID, limit, offset int) ([]application.Application, int, error) {
	return r.list(ctx, "seeker_id = $1", seekerID, limit, offset)
}

func (r *ApplicationRepository) list(ctx context.Context, cond string, arg any, limit, offset int) ([]application.Application, int, error) {
	if limit <= 0 {
		limit = 50
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE `+cond, arg).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+applicationColumns+` FROM applications WHERE `+cond+`
ORDER BY created_at DESC LIMIT $2 OFFSET $3
`, arg, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var res []application.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

func scanApplication(row pgx.Row) (application.Application, error) {
	var a application.Application
	var status string
	var created time.Time
	if err := row.Scan(&a.ID, &a.JobID, &a.SeekerID, &a.CoverLetter, &a.ResumePath,
		&a.LinkedInURL, &status, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	a.CreatedAt = created.UTC()
	return a, nil
}
