package providers

import (
	"context"
	"time"
)

// ScriptProvider generates narration scripts and YouTube metadata.
type ScriptProvider interface {
	// Name returns the provider identifier (e.g., "openai").
	Name() string

	// GenerateScript writes a voiceover script for the given topic and
	// target duration in minutes.
	GenerateScript(ctx context.Context, req *ScriptRequest) (*ScriptResult, error)

	// GenerateMetadata produces YouTube titles, description, and tags.
	GenerateMetadata(ctx context.Context, req *MetadataRequest) (*MetadataResult, error)

	// HealthCheck verifies the provider is reachable with valid credentials.
	HealthCheck(ctx context.Context) error
}

// ImageProvider generates thumbnail images.
type ImageProvider interface {
	Name() string

	// GenerateImage creates a thumbnail for the topic and returns a URL
	// the caller can download the image from.
	GenerateImage(ctx context.Context, topic string) (*ImageResult, error)
}

// TTSProvider converts text to speech.
type TTSProvider interface {
	Name() string

	// Generate converts text to audio bytes.
	Generate(ctx context.Context, req *TTSRequest) (*TTSResult, error)

	HealthCheck(ctx context.Context) error
}

// StockProvider searches and downloads stock video footage.
type StockProvider interface {
	Name() string

	// SearchVideos finds stock clips matching a topic.
	SearchVideos(ctx context.Context, topic string, count int) (*StockSearchResult, error)

	// DownloadClip fetches a clip's bytes to a local file.
	DownloadClip(ctx context.Context, url, destPath string) error

	HealthCheck(ctx context.Context) error
}

// ScriptRequest asks for a narration script.
type ScriptRequest struct {
	Topic           string
	DurationMinutes int
}

// ScriptResult is the generated narration script.
type ScriptResult struct {
	Text          string        `json:"text"`
	WordCount     int           `json:"word_count"`
	ModelUsed     string        `json:"model_used"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// MetadataRequest asks for YouTube metadata based on a script.
type MetadataRequest struct {
	Topic      string
	ScriptText string
}

// MetadataResult is structured YouTube metadata.
type MetadataResult struct {
	Titles        []string      `json:"titles"`
	Description   string        `json:"description"`
	Tags          []string      `json:"tags"`
	ModelUsed     string        `json:"model_used"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// ImageResult is a generated image reference.
type ImageResult struct {
	URL           string        `json:"url"`
	ModelUsed     string        `json:"model_used"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// TTSRequest is a text-to-speech request.
type TTSRequest struct {
	Text   string
	Voice  string // Voice ID override (uses client default if empty)
	Format string // Output format override
}

// TTSResult is the response from a TTS provider.
type TTSResult struct {
	Success       bool          `json:"success"`
	Audio         []byte        `json:"-"`
	CharCount     int           `json:"char_count"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// StockClip is a single stock footage result.
type StockClip struct {
	ID              int64  `json:"id"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"duration_seconds"`
	Attribution     string `json:"attribution"`
}

// StockSearchResult is the response from a stock footage search.
type StockSearchResult struct {
	TotalFound int         `json:"total_found"`
	Clips      []StockClip `json:"clips"`
}
