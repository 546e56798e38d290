package domain

import "time"

// AnalysisRecord is the stored, text-only trace of one complaint analysis.
// Uploaded images are never stored.
type AnalysisRecord struct {
	ID            string            `json:"id"`
	Complaint     string            `json:"complaint"`
	Mode          string            `json:"mode"`
	Outcome       string            `json:"outcome"`
	Fields        map[string]string `json:"fields,omitempty"`
	Answer        string            `json:"answer"`
	Reason        string            `json:"reason,omitempty"`
	SuggestedPost string            `json:"suggested_post,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
