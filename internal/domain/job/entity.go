package job

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID          int64
	Title       string
	Description string
	Location    *string
	Company     *string
	SourceURL   *string
	CreatedAt   time.Time
}

// Text is what the scoring oracle sees for a job.
func (j Job) Text() string {
	return j.Description
}

type NewJob struct {
	Title       string
	Description string
	Location    *string
	Company     *string
	SourceURL   *string
}
