package usecase

import (
	"context"
	"time"
)

type JobCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	jobsListCacheKey = "jobs:list"
	jobsListCacheTTL = 5 * time.Minute
)
