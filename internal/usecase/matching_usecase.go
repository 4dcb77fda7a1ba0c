package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-matcher/internal/config"
	"job-matcher/internal/domain/job"
	"job-matcher/internal/domain/match"
	"job-matcher/internal/domain/matching"
	"job-matcher/internal/domain/resume"
	"job-matcher/internal/events"
	"job-matcher/internal/metrics"
	"job-matcher/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	persistTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

type RankedMatch struct {
	JobID int64
	Title string
	Score float64
}

type MatchingUsecase interface {
	Match(ctx context.Context, resumeID int64) ([]RankedMatch, error)
	ListMatches(ctx context.Context, resumeID int64) ([]match.Match, error)
}

type Matching struct {
	resumes   repository.ResumeRepository
	jobs      repository.JobRepository
	matches   repository.MatchRepository
	scorer    Scorer
	publisher events.Publisher
	cfg       config.MatcherConfig
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

type MatchingDeps struct {
	Resumes   repository.ResumeRepository
	Jobs      repository.JobRepository
	Matches   repository.MatchRepository
	Scorer    Scorer
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

func NewMatchingUsecase(deps MatchingDeps, cfg config.MatcherConfig) *Matching {
	if deps.Publisher == nil {
		deps.Publisher = events.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Matching{
		resumes:   deps.Resumes,
		jobs:      deps.Jobs,
		matches:   deps.Matches,
		scorer:    deps.Scorer,
		publisher: deps.Publisher,
		cfg:       cfg,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

type pairResult struct {
	matching.ScoreResult
	attempts  int
	skipped   bool
	upsertErr error
}

// Match scores the resume against every job in the catalog, stores each score
// and returns the TopK jobs by descending score. Oracle and storage failures
// never fail the run; only a missing resume or an unreadable catalog does.
//
// Pair calls are detached from ctx: when the caller goes away, calls already
// in flight still finish (bounded by PairDeadline) and keep their upserts, while
// pairs not yet started are skipped and ctx's error is returned.
func (u *Matching) Match(ctx context.Context, resumeID int64) ([]RankedMatch, error) {
	if resumeID <= 0 {
		return nil, ErrInvalidInput
	}
	start := time.Now()
	runID := uuid.NewString()
	logger := u.logger.With(zap.String("run_id", runID), zap.Int64("resume_id", resumeID))

	// Both loads run to completion so a missing resume is reported even when
	// the catalog read fails too.
	var (
		r                  resume.Resume
		jobs               []job.Job
		resumeErr, jobsErr error
		g                  errgroup.Group
	)
	g.Go(func() error {
		r, resumeErr = u.resumes.GetByID(ctx, resumeID)
		return nil
	})
	g.Go(func() error {
		jobs, jobsErr = u.jobs.ListAll(ctx)
		return nil
	})
	_ = g.Wait()
	if resumeErr != nil {
		if errors.Is(resumeErr, resume.ErrNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("load resume: %w", resumeErr)
	}
	if jobsErr != nil {
		return nil, fmt.Errorf("load job catalog: %w", jobsErr)
	}

	if len(jobs) == 0 {
		logger.Info("job catalog is empty, nothing to match")
		return []RankedMatch{}, nil
	}

	results := u.scoreAll(ctx, logger, r, jobs)

	scores := make([]matching.ScoreResult, 0, len(results))
	var fallbacks, upsertFailures, skipped int
	for _, res := range results {
		if res.skipped {
			skipped++
			continue
		}
		if res.Err != nil {
			fallbacks++
		}
		if res.upsertErr != nil {
			upsertFailures++
		}
		scores = append(scores, res.ScoreResult)
	}

	u.metrics.ObserveMatchRun(len(jobs), time.Since(start))
	if err := ctx.Err(); err != nil {
		logger.Warn("match run canceled by caller",
			zap.Int("jobs", len(jobs)),
			zap.Int("scored", len(scores)),
			zap.Int("skipped", skipped),
			zap.Error(err),
		)
		return nil, err
	}

	ranked := matching.Rank(scores, u.cfg.TopK)
	out := make([]RankedMatch, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, RankedMatch{JobID: s.JobID, Title: s.Title, Score: s.Score})
	}

	logger.Info("match run completed",
		zap.Int("jobs", len(jobs)),
		zap.Int("fallbacks", fallbacks),
		zap.Int("upsert_failures", upsertFailures),
		zap.Int("returned", len(out)),
		zap.Duration("duration", time.Since(start)),
	)

	u.publish(ctx, logger, events.MatchCompleted{
		Type:           events.TypeMatchCompleted,
		RunID:          runID,
		ResumeID:       resumeID,
		UserID:         r.UserID,
		Matches:        toEventScores(out),
		JobsScored:     len(scores),
		Fallbacks:      fallbacks,
		UpsertFailures: upsertFailures,
		CompletedAt:    time.Now().UTC(),
	})

	return out, nil
}

// scoreAll returns one result per job, at the job's position in jobs.
func (u *Matching) scoreAll(ctx context.Context, logger *zap.Logger, r resume.Resume, jobs []job.Job) []pairResult {
	base := context.WithoutCancel(ctx)

	pool := NewWorkerPool[pairResult](u.cfg.Workers, len(jobs))
	pool.SetRateLimit(u.cfg.OracleRPS)
	out := pool.Run(ctx)

	for i, j := range jobs {
		pool.Submit(Task[pairResult]{
			Index: i,
			Run: func(context.Context) pairResult {
				if ctx.Err() != nil {
					return pairResult{ScoreResult: matching.ScoreResult{JobID: j.ID, Title: j.Title, Err: ctx.Err()}, skipped: true}
				}
				return u.scoreOne(base, logger, r, j)
			},
		})
	}
	pool.Close()

	results := make([]pairResult, len(jobs))
	for res := range out {
		results[res.Index] = res.Value
	}
	return results
}

func (u *Matching) scoreOne(base context.Context, logger *zap.Logger, r resume.Resume, j job.Job) pairResult {
	pairCtx, cancel := u.pairContext(base)
	outcome := u.scorer.ScorePair(pairCtx, r.Content, j.Text())
	cancel()

	res := pairResult{
		ScoreResult: matching.ScoreResult{JobID: j.ID, Title: j.Title, Score: outcome.Score, Err: outcome.Err},
		attempts:    outcome.Attempts,
	}
	if outcome.Err != nil {
		logger.Warn("oracle score fell back",
			zap.Int64("job_id", j.ID),
			zap.Int("attempt", outcome.Attempts),
			zap.Float64("score", outcome.Score),
			zap.Error(outcome.Err),
		)
	}

	storeCtx, cancelStore := context.WithTimeout(base, persistTimeout)
	defer cancelStore()
	if err := u.matches.Upsert(storeCtx, r.ID, j.ID, outcome.Score); err != nil {
		u.metrics.UpsertFailed()
		logger.Error("match upsert failed",
			zap.Int64("job_id", j.ID),
			zap.Float64("score", outcome.Score),
			zap.Error(err),
		)
		res.upsertErr = err
	}
	return res
}

func (u *Matching) pairContext(base context.Context) (context.Context, context.CancelFunc) {
	if u.cfg.PairDeadline <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, u.cfg.PairDeadline)
}

func (u *Matching) publish(ctx context.Context, logger *zap.Logger, e events.MatchCompleted) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := u.publisher.PublishMatchCompleted(pctx, e); err != nil {
		logger.Warn("match event not delivered", zap.Error(err))
	}
}

func (u *Matching) ListMatches(ctx context.Context, resumeID int64) ([]match.Match, error) {
	if resumeID <= 0 {
		return nil, ErrInvalidInput
	}
	if _, err := u.resumes.GetByID(ctx, resumeID); err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("get resume: %w", err)
	}
	out, err := u.matches.ListByResume(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

func toEventScores(in []RankedMatch) []events.MatchScore {
	out := make([]events.MatchScore, 0, len(in))
	for _, m := range in {
		out = append(out, events.MatchScore{JobID: m.JobID, Title: m.Title, Score: m.Score})
	}
	return out
}
