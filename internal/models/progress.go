package models

// ProgressUpdate is broadcast over the websocket hub while ingestion and
// background jobs run.
type ProgressUpdate struct {
	JobID    string  `json:"jobId"`
	Series   string  `json:"series,omitempty"`
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	Status   string  `json:"status"` // e.g. "in_progress", "completed", "failed"
	Done     bool    `json:"done"`
}
