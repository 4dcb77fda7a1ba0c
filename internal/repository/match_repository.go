package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-matcher/internal/database"
	"job-matcher/internal/domain/match"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPersistence = errors.New("match persistence failed")
	// ErrMatchReference means the resume or job of the pair does not exist.
	ErrMatchReference = errors.New("match references a missing resume or job")
)

// MatchRepository stores at most one score per (resume, job) pair; the latest write wins.
type MatchRepository interface {
	Upsert(ctx context.Context, resumeID, jobID int64, score float64) error
	ListByResume(ctx context.Context, resumeID int64) ([]match.Match, error)
}

type PostgresMatchRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *PostgresMatchRepository) Upsert(ctx context.Context, resumeID, jobID int64, score float64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO matches (resume_id, job_id, score, matched_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (resume_id, job_id) DO UPDATE SET
			score = EXCLUDED.score,
			matched_at = EXCLUDED.matched_at`,
		resumeID,
		jobID,
		score,
		r.now(),
	)
	if err != nil {
		return persistenceError(err)
	}
	return nil
}

func (r *PostgresMatchRepository) ListByResume(ctx context.Context, resumeID int64) ([]match.Match, error) {
	rows, err := r.db.Query(ctx,
		`SELECT resume_id, job_id, score, matched_at
		 FROM matches
		 WHERE resume_id = $1
		 ORDER BY score DESC, job_id ASC`,
		resumeID,
	)
	if err != nil {
		return nil, persistenceError(err)
	}
	defer rows.Close()

	out := make([]match.Match, 0)
	for rows.Next() {
		var m match.Match
		if err := rows.Scan(&m.ResumeID, &m.JobID, &m.Score, &m.MatchedAt); err != nil {
			return nil, persistenceError(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError(err)
	}
	return out, nil
}

func persistenceError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return fmt.Errorf("%w: %w: %w", ErrPersistence, ErrMatchReference, err)
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
