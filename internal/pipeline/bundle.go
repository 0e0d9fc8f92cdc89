// Package pipeline implements the content generation pipeline: a strict
// sequence of remote generation stages followed by an asynchronous render
// job tracked by a polling loop.
package pipeline

import (
	"sync"

	"github.com/jackzampolin/reel/internal/api"
)

// Stage identifies one step of the generation pipeline.
type Stage string

const (
	StageScript       Stage = "script"
	StageVoice        Stage = "voice"
	StageThumbnail    Stage = "thumbnail"
	StageStockFootage Stage = "stock_footage"
	StageMetadata     Stage = "metadata"
	StageAssembly     Stage = "assembly"
)

// Stages lists all pipeline stages in execution order.
var Stages = []Stage{
	StageScript,
	StageVoice,
	StageThumbnail,
	StageStockFootage,
	StageMetadata,
	StageAssembly,
}

// ScriptResult is the output of the script stage.
type ScriptResult struct {
	ID        string `json:"id" yaml:"id"`
	WordCount int    `json:"word_count" yaml:"word_count"`
	Text      string `json:"text" yaml:"text"`
}

// VoiceResult is the output of the voice stage. Audio is stored server-side
// keyed by the script it narrates.
type VoiceResult struct {
	ScriptID string `json:"script_id" yaml:"script_id"`
}

// ThumbnailResult is the output of the thumbnail stage.
type ThumbnailResult struct {
	ID       string `json:"id" yaml:"id"`
	ImageURL string `json:"image_url" yaml:"image_url"`
}

// StockFootageResult is the output of the stock footage search stage.
type StockFootageResult struct {
	TotalFound int              `json:"total_found" yaml:"total_found"`
	Clips      []api.StockVideo `json:"clips" yaml:"clips"`
}

// MetadataResult is the output of the metadata stage.
type MetadataResult struct {
	Titles      []string `json:"titles" yaml:"titles"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// VideoResult is the output of the assembly stage. Unconfirmed marks results
// whose completion was never confirmed by the status channel (poll budget
// exhaustion or a failed status overridden by the artifact probe); metadata
// on unconfirmed results is best-effort.
type VideoResult struct {
	JobID           string  `json:"job_id" yaml:"job_id"`
	DurationSeconds float64 `json:"duration_seconds" yaml:"duration_seconds"`
	SizeBytes       int64   `json:"size_bytes" yaml:"size_bytes"`
	ClipsUsed       int     `json:"clips_used" yaml:"clips_used"`
	Unconfirmed     bool    `json:"unconfirmed,omitempty" yaml:"unconfirmed,omitempty"`
}

// Bundle accumulates per-stage results for a single pipeline run. Fields
// move from absent to present exactly once; a new run replaces the bundle
// wholesale rather than resetting fields one by one.
type Bundle struct {
	mu        sync.RWMutex
	script    *ScriptResult
	voice     *VoiceResult
	thumbnail *ThumbnailResult
	stock     *StockFootageResult
	metadata  *MetadataResult
	video     *VideoResult
}

// NewBundle creates an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{}
}

func (b *Bundle) setScript(r *ScriptResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.script = r
}

func (b *Bundle) setVoice(r *VoiceResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.voice = r
}

func (b *Bundle) setThumbnail(r *ThumbnailResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.thumbnail = r
}

func (b *Bundle) setStock(r *StockFootageResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stock = r
}

func (b *Bundle) setMetadata(r *MetadataResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.metadata = r
}

func (b *Bundle) setVideo(r *VideoResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.video = r
}

// Script returns the script stage result, or nil.
func (b *Bundle) Script() *ScriptResult {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.script
}

// Voice returns the voice stage result, or nil.
func (b *Bundle) Voice() *VoiceResult {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.voice
}

// Thumbnail returns the thumbnail stage result, or nil.
func (b *Bundle) Thumbnail() *ThumbnailResult {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.thumbnail
}

// StockFootage returns the stock footage stage result, or nil.
func (b *Bundle) StockFootage() *StockFootageResult {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stock
}

// Metadata returns the metadata stage result, or nil.
func (b *Bundle) Metadata() *MetadataResult {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metadata
}

// Video returns the assembly stage result, or nil.
func (b *Bundle) Video() *VideoResult {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.video
}

// Has reports whether a stage's result is present.
func (b *Bundle) Has(stage Stage) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	switch stage {
	case StageScript:
		return b.script != nil
	case StageVoice:
		return b.voice != nil
	case StageThumbnail:
		return b.thumbnail != nil
	case StageStockFootage:
		return b.stock != nil
	case StageMetadata:
		return b.metadata != nil
	case StageAssembly:
		return b.video != nil
	default:
		return false
	}
}

// IsComplete reports whether every stage's result is present.
func (b *Bundle) IsComplete() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.script != nil && b.voice != nil && b.thumbnail != nil &&
		b.stock != nil && b.metadata != nil && b.video != nil
}

// Snapshot is a copy of the bundle contents for presentation.
type Snapshot struct {
	Script       *ScriptResult       `json:"script,omitempty" yaml:"script,omitempty"`
	Voice        *VoiceResult        `json:"voice,omitempty" yaml:"voice,omitempty"`
	Thumbnail    *ThumbnailResult    `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	StockFootage *StockFootageResult `json:"stock_footage,omitempty" yaml:"stock_footage,omitempty"`
	Metadata     *MetadataResult     `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Video        *VideoResult        `json:"video,omitempty" yaml:"video,omitempty"`
	Complete     bool                `json:"complete" yaml:"complete"`
}

// Snapshot returns a point-in-time copy of the bundle.
func (b *Bundle) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{
		Script:       b.script,
		Voice:        b.voice,
		Thumbnail:    b.thumbnail,
		StockFootage: b.stock,
		Metadata:     b.metadata,
		Video:        b.video,
		Complete: b.script != nil && b.voice != nil && b.thumbnail != nil &&
			b.stock != nil && b.metadata != nil && b.video != nil,
	}
}
