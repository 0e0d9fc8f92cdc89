package api

import "time"

// Phase is the lifecycle phase of a background assembly job.
type Phase string

const (
	PhaseQueued     Phase = "queued"
	PhaseProcessing Phase = "processing"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

// GenerateScriptRequest asks the server to write a narration script.
type GenerateScriptRequest struct {
	Topic           string `json:"topic"`
	DurationMinutes int    `json:"duration_minutes"`
}

// GenerateScriptResponse is the generated script.
type GenerateScriptResponse struct {
	ScriptID          string `json:"script_id"`
	Content           string `json:"content"`
	WordCount         int    `json:"word_count"`
	EstimatedDuration int    `json:"estimated_duration"`
}

// GenerateVoiceRequest converts a stored script to audio.
type GenerateVoiceRequest struct {
	ScriptID string `json:"script_id"`
}

// GenerateVoiceResponse reports the synthesized audio artifact.
type GenerateVoiceResponse struct {
	ScriptID string `json:"script_id"`
	Status   string `json:"status"`
}

// GenerateThumbnailRequest asks for a thumbnail image.
type GenerateThumbnailRequest struct {
	Topic string `json:"topic"`
}

// GenerateThumbnailResponse is the generated thumbnail.
type GenerateThumbnailResponse struct {
	ThumbnailID string `json:"thumbnail_id"`
	ImageURL    string `json:"image_url"`
}

// StockVideosRequest searches stock footage for a topic.
type StockVideosRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// StockVideo is a single stock footage search result.
type StockVideo struct {
	ID              int64  `json:"id"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"duration_seconds"`
	Attribution     string `json:"attribution"`
}

// StockVideosResponse lists matching stock clips.
type StockVideosResponse struct {
	Videos     []StockVideo `json:"videos"`
	TotalFound int          `json:"total_found"`
}

// MetadataRequest asks for YouTube metadata.
type MetadataRequest struct {
	Topic         string `json:"topic"`
	ScriptContent string `json:"script_content"`
}

// MetadataResponse is the generated YouTube metadata.
type MetadataResponse struct {
	Topic       string   `json:"topic"`
	Titles      []string `json:"titles"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// AssembleVideoRequest triggers background video assembly.
type AssembleVideoRequest struct {
	ScriptID string `json:"script_id"`
	Topic    string `json:"topic"`
}

// AssembleVideoResponse acknowledges a started assembly job.
type AssembleVideoResponse struct {
	VideoID string `json:"video_id"`
	Status  Phase  `json:"status"`
	Message string `json:"message"`
}

// JobStatus is the status of a background assembly job. The server writes it;
// the poller reads it. It is not guaranteed self-consistent with the artifact
// on disk: a job can report failed while its output exists (see the poller's
// recovery probe).
type JobStatus struct {
	VideoID   string    `json:"video_id"`
	Status    Phase     `json:"status"`
	Progress  int       `json:"progress"` // 0-100
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Completion metadata (present once completed)
	DurationSeconds float64 `json:"duration,omitempty"`
	FileSize        int64   `json:"file_size,omitempty"`
	ClipsUsed       int     `json:"clips_used,omitempty"`
	VideoPath       string  `json:"video_path,omitempty"`
}

// HealthResponse is the server health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// IntegrationResult is the outcome of a single provider integration test.
type IntegrationResult struct {
	Status string `json:"status"` // "success" or "error"
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// ErrorResponse is the JSON error payload returned by the server.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ArtifactKind identifies a downloadable artifact type.
type ArtifactKind string

const (
	ArtifactScript    ArtifactKind = "script"
	ArtifactAudio     ArtifactKind = "audio"
	ArtifactThumbnail ArtifactKind = "thumbnail"
	ArtifactVideo     ArtifactKind = "video"
)
