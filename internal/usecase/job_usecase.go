package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-matcher/internal/domain/job"
	"job-matcher/internal/repository"

	"go.uber.org/zap"
)

type JobUsecase interface {
	ListJobs(ctx context.Context) ([]job.Job, error)
	GetJob(ctx context.Context, id int64) (job.Job, error)
	SaveJobs(ctx context.Context, jobs []job.NewJob) (int, error)
}

type Jobs struct {
	repo   repository.JobRepository
	cache  JobCache
	logger *zap.Logger
}

func NewJobUsecase(repo repository.JobRepository, cache JobCache, logger *zap.Logger) *Jobs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Jobs{repo: repo, cache: cache, logger: logger}
}

func (u *Jobs) ListJobs(ctx context.Context) ([]job.Job, error) {
	if u.cache != nil {
		var cached []job.Job
		ok, err := u.cache.GetJSON(ctx, jobsListCacheKey, &cached)
		if err != nil {
			u.logger.Debug("jobs cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	jobs, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, jobsListCacheKey, jobs, jobsListCacheTTL); err != nil {
			u.logger.Debug("jobs cache write failed", zap.Error(err))
		}
	}
	return jobs, nil
}

func (u *Jobs) GetJob(ctx context.Context, id int64) (job.Job, error) {
	if id <= 0 {
		return job.Job{}, ErrJobNotFound
	}
	j, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// SaveJobs stores the valid entries of jobs and reports how many were saved.
// Entries without a title or description are skipped.
func (u *Jobs) SaveJobs(ctx context.Context, jobs []job.NewJob) (int, error) {
	saved := 0
	for _, j := range jobs {
		j.Title = strings.TrimSpace(j.Title)
		j.Description = strings.TrimSpace(j.Description)
		if j.Title == "" || j.Description == "" {
			continue
		}
		if _, err := u.repo.Save(ctx, j); err != nil {
			return saved, err
		}
		saved++
	}

	if saved > 0 && u.cache != nil {
		if err := u.cache.Delete(ctx, jobsListCacheKey); err != nil {
			u.logger.Warn("jobs cache invalidation failed", zap.Error(err))
		}
	}
	return saved, nil
}
