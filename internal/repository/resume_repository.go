package repository

import (
	"context"
	"errors"
	"fmt"

	"job-matcher/internal/database"
	"job-matcher/internal/domain/resume"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrUnknownOwner = errors.New("resume owner does not exist")

type ResumeRepository interface {
	GetByID(ctx context.Context, id int64) (resume.Resume, error)
	Create(ctx context.Context, userID *int64, content string) (int64, error)
}

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) GetByID(ctx context.Context, id int64) (resume.Resume, error) {
	var out resume.Resume
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, content, created_at FROM resumes WHERE id = $1`,
		id,
	).Scan(&out.ID, &out.UserID, &out.Content, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Resume{}, resume.ErrNotFound
		}
		return resume.Resume{}, fmt.Errorf("get resume %d: %w", id, err)
	}
	return out, nil
}

func (r *PostgresResumeRepository) Create(ctx context.Context, userID *int64, content string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO resumes (user_id, content) VALUES ($1, $2) RETURNING id`,
		userID,
		content,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return 0, ErrUnknownOwner
		}
		return 0, fmt.Errorf("create resume: %w", err)
	}
	return id, nil
}
