// Package events carries notifications about finished match runs to the
// websocket hub and the message broker.
package events

import (
	"context"
	"errors"
	"time"
)

const TypeMatchCompleted = "match.completed"

type MatchScore struct {
	JobID int64   `json:"job_id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

type MatchCompleted struct {
	Type           string       `json:"type"`
	RunID          string       `json:"run_id"`
	ResumeID       int64        `json:"resume_id"`
	UserID         *int64       `json:"user_id,omitempty"`
	Matches        []MatchScore `json:"matches"`
	JobsScored     int          `json:"jobs_scored"`
	Fallbacks      int          `json:"fallbacks"`
	UpsertFailures int          `json:"upsert_failures"`
	CompletedAt    time.Time    `json:"completed_at"`
}

type Publisher interface {
	PublishMatchCompleted(ctx context.Context, e MatchCompleted) error
}

type Nop struct{}

func (Nop) PublishMatchCompleted(context.Context, MatchCompleted) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) PublishMatchCompleted(ctx context.Context, e MatchCompleted) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.PublishMatchCompleted(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
