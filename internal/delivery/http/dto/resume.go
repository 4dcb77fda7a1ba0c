package dto

type ResumeUploadResponse struct {
	ResumeID int64 `json:"resume_id"`
}
