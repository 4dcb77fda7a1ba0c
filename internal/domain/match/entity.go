package match

import "time"

// Match is the durable score of one (resume, job) pair. At most one exists per pair.
type Match struct {
	ResumeID  int64
	JobID     int64
	Score     float64
	MatchedAt time.Time
}

type Key struct {
	ResumeID int64
	JobID    int64
}

func (m Match) Key() Key {
	return Key{ResumeID: m.ResumeID, JobID: m.JobID}
}
