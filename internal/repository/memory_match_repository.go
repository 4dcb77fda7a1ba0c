package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"job-matcher/internal/domain/match"
)

type matchEntry struct {
	mu        sync.Mutex
	score     float64
	matchedAt time.Time
	set       bool
}

// MemoryMatchRepository keeps matches in process. Writers of the same pair
// serialize on that pair's entry only.
type MemoryMatchRepository struct {
	entries sync.Map // match.Key -> *matchEntry
	now     func() time.Time
}

func NewMemoryMatchRepository() *MemoryMatchRepository {
	return &MemoryMatchRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryMatchRepository) Upsert(ctx context.Context, resumeID, jobID int64, score float64) error {
	if err := ctx.Err(); err != nil {
		return persistenceError(err)
	}
	v, _ := r.entries.LoadOrStore(match.Key{ResumeID: resumeID, JobID: jobID}, &matchEntry{})
	e := v.(*matchEntry)

	e.mu.Lock()
	e.score = score
	e.matchedAt = r.now()
	e.set = true
	e.mu.Unlock()
	return nil
}

func (r *MemoryMatchRepository) ListByResume(ctx context.Context, resumeID int64) ([]match.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistenceError(err)
	}
	out := make([]match.Match, 0)
	r.entries.Range(func(k, v any) bool {
		key := k.(match.Key)
		if key.ResumeID != resumeID {
			return true
		}
		e := v.(*matchEntry)
		e.mu.Lock()
		if e.set {
			out = append(out, match.Match{ResumeID: key.ResumeID, JobID: key.JobID, Score: e.score, MatchedAt: e.matchedAt})
		}
		e.mu.Unlock()
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].JobID < out[j].JobID
	})
	return out, nil
}
