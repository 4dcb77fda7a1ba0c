package dto

type MatchJobsRequest struct {
	ResumeID int64 `json:"resume_id"`
}

type MatchResponse struct {
	JobID int64   `json:"job_id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

type MatchJobsResponse struct {
	Matches []MatchResponse `json:"matches"`
}

type StoredMatchResponse struct {
	JobID     int64   `json:"job_id"`
	Score     float64 `json:"score"`
	MatchedAt string  `json:"matched_at"`
}

type StoredMatchesResponse struct {
	ResumeID int64                 `json:"resume_id"`
	Matches  []StoredMatchResponse `json:"matches"`
}
