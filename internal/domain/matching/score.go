package matching

import (
	"errors"
	"fmt"
	"math"
)

const (
	MinScore      = 0.0
	MaxScore      = 1.0
	FallbackScore = 0.0

	// AbsurdScoreLimit separates an overshooting score, clamped to MaxScore,
	// from output that cannot be a similarity at all.
	AbsurdScoreLimit = 100.0
)

var ErrScoreOutOfRange = errors.New("score out of range")

// ScoreResult is one scored pair of a matching run. Err is set when Score is the fallback.
type ScoreResult struct {
	JobID int64
	Title string
	Score float64
	Err   error
}

// Normalize maps a raw oracle value into [MinScore, MaxScore].
func Normalize(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinScore || v > AbsurdScoreLimit {
		return FallbackScore, fmt.Errorf("%w: %v", ErrScoreOutOfRange, v)
	}
	if v > MaxScore {
		return MaxScore, nil
	}
	return v, nil
}
