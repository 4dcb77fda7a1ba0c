package matching

import "sort"

// Rank orders results by score, highest first, and keeps at most k of them.
// Equal scores keep their input order, so the output is a function of the
// scores and the input order only.
func Rank(results []ScoreResult, k int) []ScoreResult {
	if k <= 0 || len(results) == 0 {
		return []ScoreResult{}
	}

	out := make([]ScoreResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}
