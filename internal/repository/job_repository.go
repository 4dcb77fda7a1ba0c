package repository

import (
	"context"
	"errors"
	"fmt"

	"job-matcher/internal/database"
	"job-matcher/internal/domain/job"

	"github.com/jackc/pgx/v5"
)

type JobRepository interface {
	ListAll(ctx context.Context) ([]job.Job, error)
	GetByID(ctx context.Context, id int64) (job.Job, error)
	Count(ctx context.Context) (int64, error)
	// Save inserts j, or refreshes the row with the same source URL.
	Save(ctx context.Context, j job.NewJob) (int64, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, title, description, location, company, source_url, created_at`

func (r *PostgresJobRepository) ListAll(ctx context.Context) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id int64) (job.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, fmt.Errorf("get job %d: %w", id, err)
	}
	return j, nil
}

func (r *PostgresJobRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

func (r *PostgresJobRepository) Save(ctx context.Context, j job.NewJob) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO jobs (title, description, location, company, source_url)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (source_url) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			location = EXCLUDED.location,
			company = EXCLUDED.company
		 RETURNING id`,
		j.Title,
		j.Description,
		j.Location,
		j.Company,
		j.SourceURL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save job: %w", err)
	}
	return id, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Location, &j.Company, &j.SourceURL, &j.CreatedAt)
	return j, err
}
