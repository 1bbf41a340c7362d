package types

import "time"

// GenerationRequest represents one prompt dispatched to a generation backend.
// IDs are unique and monotonically increasing within a batch.
type GenerationRequest struct {
	ID           string    `json:"id"`
	SectionTitle string    `json:"section_title"`
	Prompt       string    `json:"prompt"`
	Attempt      int       `json:"attempt"`
	CreatedAt    time.Time `json:"created_at"`
}

// GenerationResponse represents the backend's answer to a single request.
// A non-empty Error marks the request failed regardless of Content.
type GenerationResponse struct {
	RequestID  string    `json:"request_id"`
	Content    string    `json:"content"`
	TokensUsed int       `json:"tokens_used,omitempty"`
	Error      string    `json:"error,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Failed reports whether the response carries a backend-side error.
func (r *GenerationResponse) Failed() bool {
	return r.Error != ""
}

// SearchResult represents one ranked hit from the corpus search engine.
type SearchResult struct {
	Content    string            `json:"content"`
	SourceID   string            `json:"source_id"`
	Similarity float64           `json:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// QualityAssessment is the outcome of scoring one generated unit against the
// quality policy. Score is in [0,1].
type QualityAssessment struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues,omitempty"`
	Passed bool     `json:"passed"`
}

// Attempt records one generation attempt inside a retry loop.
type Attempt struct {
	Number     int               `json:"number"`
	PromptUsed string            `json:"prompt_used"`
	Content    string            `json:"content,omitempty"`
	Assessment QualityAssessment `json:"assessment"`
	Err        string            `json:"error,omitempty"`
}
