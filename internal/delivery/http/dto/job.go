package dto

type JobResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    *string `json:"location"`
	Company     *string `json:"company"`
	SourceURL   *string `json:"source_url,omitempty"`
}
