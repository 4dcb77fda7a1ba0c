package seeder

import (
	"context"

	"job-matcher/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
