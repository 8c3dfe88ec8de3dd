package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openboard/backend/pkg/job"
)

const jobColumns = `id, employer_id, title, company, location, remote, job_type,
	salary_min, salary_max, salary_currency, description, requirements,
	apply_email, apply_url, tags, status, created_at, updated_at`

// JobRepository implements job.Repository backed by PostgreSQL (pgx).
type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) (*JobRepository, error) {
	r := &JobRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *JobRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
	id BIGSERIAL PRIMARY KEY,
	employer_id UUID NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	company TEXT NOT NULL,
	location TEXT NOT NULL,
	remote BOOLEAN NOT NULL DEFAULT FALSE,
	job_type TEXT NOT NULL,
	salary_min BIGINT,
	salary_max BIGINT,
	salary_currency TEXT,
	description TEXT NOT NULL,
	requirements TEXT NOT NULL DEFAULT '',
	apply_email TEXT NOT NULL DEFAULT '',
	apply_url TEXT NOT NULL DEFAULT '',
	tags TEXT[] NOT NULL DEFAULT '{}',
	status TEXT NOT NULL DEFAULT 'PENDING_APPROVAL',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_employer ON jobs(employer_id);
`)
	return err
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	if j.Tags == nil {
		j.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO jobs (employer_id, title, company, location, remote, job_type,
	salary_min, salary_max, salary_currency, description, requirements,
	apply_email, apply_url, tags, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING id
`, j.EmployerID, j.Title, j.Company, j.Location, j.Remote, string(j.Type),
		j.SalaryMin, j.SalaryMax, nullIfEmpty(j.SalaryCurrency), j.Description, j.Requirements,
		j.ApplyEmail, j.ApplyURL, j.Tags, string(j.Status), j.CreatedAt, j.UpdatedAt)
	if err := row.Scan(&j.ID); err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id int64) (job.Job, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *JobRepository) OwnerOf(ctx context.Context, id int64) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT employer_id FROM jobs WHERE id = $1`, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, job.ErrNotFound
		}
		return uuid.Nil, err
	}
	return owner, nil
}

// UpdateContent rewrites the owner-editable fields and forces the posting
// back through review in the same statement. Terminal statuses are not
// matched, so a FILLED or ARCHIVED job cannot be reopened by an edit.
func (r *JobRepository) UpdateContent(ctx context.Context, j job.Job) (job.Job, error) {
	if j.Tags == nil {
		j.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx, `
UPDATE jobs
SET title = $2, company = $3, location = $4, remote = $5, job_type = $6,
	salary_min = $7, salary_max = $8, salary_currency = $9,
	description = $10, requirements = $11, apply_email = $12, apply_url = $13,
	tags = $14, status = 'PENDING_APPROVAL', updated_at = $15
WHERE id = $1 AND status NOT IN ('ARCHIVED', 'FILLED')
RETURNING `+jobColumns+`
`, j.ID, j.Title, j.Company, j.Location, j.Remote, string(j.Type),
		j.SalaryMin, j.SalaryMax, nullIfEmpty(j.SalaryCurrency),
		j.Description, j.Requirements, j.ApplyEmail, j.ApplyURL,
		j.Tags, time.Now().UTC())
	updated, err := scanJob(row)
	if err != nil {
		return job.Job{}, err
	}
	return updated, nil
}

// SetStatusFromPending is the one compare-and-swap in the system: two
// concurrent admins racing on the same job produce exactly one affected
// row, and the loser sees ok == false.
func (r *JobRepository) SetStatusFromPending(ctx context.Context, id int64, target job.Status) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE jobs SET status = $2, updated_at = $3
WHERE id = $1 AND status = 'PENDING_APPROVAL'
`, id, string(target), time.Now().UTC())
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *JobRepository) Close(ctx context.Context, id int64, target job.Status) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE jobs SET status = $2, updated_at = $3
WHERE id = $1 AND status = 'APPROVED'
`, id, string(target), time.Now().UTC())
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *JobRepository) ListPublic(ctx context.Context, f job.Filter, limit, offset int) ([]job.Job, int, error) {
	where := []string{`status = 'APPROVED'`}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		ph := arg("%" + q + "%")
		where = append(where, fmt.Sprintf("(title ILIKE %s OR company ILIKE %s)", ph, ph))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		where = append(where, "location ILIKE "+arg("%"+loc+"%"))
	}
	if f.Type != "" {
		where = append(where, "job_type = "+arg(string(f.Type)))
	}
	if f.Remote != nil {
		where = append(where, "remote = "+arg(*f.Remote))
	}
	cond := strings.Join(where, " AND ")
	return r.list(ctx, cond, args, limit, offset)
}

func (r *JobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID, limit, offset int) ([]job.Job, int, error) {
	return r.list(ctx, "employer_id = $1", []any{employerID}, limit, offset)
}

func (r *JobRepository) ListByStatus(ctx context.Context, status job.Status, limit, offset int) ([]job.Job, int, error) {
	return r.list(ctx, "status = $1", []any{string(status)}, limit, offset)
}

func (r *JobRepository) list(ctx context.Context, cond string, args []any, limit, offset int) ([]job.Job, int, error) {
	if limit <= 0 {
		limit = 50
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		jobColumns, cond, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var res []job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

func scanJob(row pgx.Row) (job.Job, error) {
	var j job.Job
	var jobType, status string
	var currency *string
	var created, updated time.Time
	if err := row.Scan(&j.ID, &j.EmployerID, &j.Title, &j.Company, &j.Location, &j.Remote,
		&jobType, &j.SalaryMin, &j.SalaryMax, &currency, &j.Description, &j.Requirements,
		&j.ApplyEmail, &j.ApplyURL, &j.Tags, &status, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	j.Type = job.JobType(jobType)
	j.Status = job.Status(status)
	if currency != nil {
		j.SalaryCurrency = *currency
	}
	j.CreatedAt = created.UTC()
	j.UpdatedAt = updated.UTC()
	return j, nil
}

func nullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
