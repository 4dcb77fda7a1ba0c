package matching

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results(scores ...float64) []ScoreResult {
	out := make([]ScoreResult, 0, len(scores))
	for i, s := range scores {
		out = append(out, ScoreResult{JobID: int64(i + 1), Score: s})
	}
	return out
}

func jobIDs(rs []ScoreResult) []int64 {
	ids := make([]int64, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.JobID)
	}
	return ids
}

func TestRank_TieBreakFirstSeen(t *testing.T) {
	// jobs A=1, B=2, C=3
	got := Rank(results(0.5, 0.5, 0.9), 2)
	assert.Equal(t, []int64{3, 1}, jobIDs(got))
}

func TestRank_TruncatesToK(t *testing.T) {
	got := Rank(results(0.1, 0.7, 0.3, 0.9, 0.2, 0.8, 0.4), 5)
	require.Len(t, got, 5)
	assert.Equal(t, []int64{4, 6, 2, 7, 3}, jobIDs(got))
}

func TestRank_FewerThanK(t *testing.T) {
	got := Rank(results(0.2, 0.6), 5)
	assert.Equal(t, []int64{2, 1}, jobIDs(got))
}

func TestRank_EmptyAndZeroK(t *testing.T) {
	assert.Empty(t, Rank(nil, 5))
	assert.NotNil(t, Rank(nil, 5))
	assert.Empty(t, Rank(results(0.4), 0))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := results(0.1, 0.9)
	_ = Rank(in, 2)
	assert.Equal(t, []int64{1, 2}, jobIDs(in))
}

func TestRank_FallbacksSinkBelowScored(t *testing.T) {
	in := []ScoreResult{
		{JobID: 1, Score: FallbackScore, Err: errors.New("oracle down")},
		{JobID: 2, Score: 0.4},
		{JobID: 3, Score: FallbackScore, Err: errors.New("oracle down")},
	}
	got := Rank(in, 3)
	assert.Equal(t, []int64{2, 1, 3}, jobIDs(got))
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		in      float64
		want    float64
		wantErr bool
	}{
		{name: "in range", in: 0.42, want: 0.42},
		{name: "lower bound", in: 0, want: 0},
		{name: "upper bound", in: 1, want: 1},
		{name: "overshoot clamps", in: 7.5, want: 1},
		{name: "negative", in: -0.1, wantErr: true},
		{name: "absurd", in: 1e6, wantErr: true},
		{name: "nan", in: math.NaN(), wantErr: true},
		{name: "inf", in: math.Inf(1), wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrScoreOutOfRange)
				assert.Equal(t, FallbackScore, got)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}
