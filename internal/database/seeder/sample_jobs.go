package seeder

import (
	"context"
	"fmt"

	"job-matcher/internal/database"
	"job-matcher/internal/domain/job"
	"job-matcher/internal/repository"
)

// SampleJobs is the starter catalog for an empty database.
var SampleJobs = []job.NewJob{
	{Title: "Software Engineer", Description: "Develop backend services using Python and FastAPI."},
	{Title: "Data Scientist", Description: "Analyze datasets and build machine learning models using Python."},
	{Title: "Frontend Developer", Description: "Build responsive user interfaces using React and JavaScript."},
	{Title: "DevOps Engineer", Description: "Manage CI/CD pipelines, Docker containers, and cloud infrastructure."},
	{Title: "AI Researcher", Description: "Research and implement AI models in natural language processing."},
}

// SampleJobsSeeder inserts SampleJobs only when the catalog is empty.
type SampleJobsSeeder struct{}

func (SampleJobsSeeder) Name() string { return "sample_jobs" }

func (SampleJobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs", "id", "title", "description", "location", "company", "source_url"); err != nil {
		return err
	}
	_, err := seedJobs(ctx, repository.NewPostgresJobRepository(db), SampleJobs)
	return err
}

type jobStore interface {
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, j job.NewJob) (int64, error)
}

func seedJobs(ctx context.Context, store jobStore, jobs []job.NewJob) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	for i, j := range jobs {
		if _, err := store.Save(ctx, j); err != nil {
			return i, fmt.Errorf("insert %q: %w", j.Title, err)
		}
	}
	return len(jobs), nil
}
