package resume

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("resume not found")

// Resume is immutable once stored.
type Resume struct {
	ID        int64
	UserID    *int64
	Content   string
	CreatedAt time.Time
}
