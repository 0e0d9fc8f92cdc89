package assembly

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jackzampolin/reel/internal/api"
	"github.com/jackzampolin/reel/internal/home"
	"github.com/jackzampolin/reel/internal/providers"
)

// minOutputBytes is the smallest plausible rendered video. Outputs below
// this are treated as encode failures even when ffmpeg exited zero.
const minOutputBytes = 10_000

// Renderer is the subset of FFmpeg the job needs, extracted for tests.
type Renderer interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	RenderConcat(ctx context.Context, clipPaths []string, audioPath string, audioDuration float64, outputPath string) error
	RenderStill(ctx context.Context, imagePath, audioPath, outputPath string) error
}

// Runner executes assembly jobs in the background.
type Runner struct {
	Home     *home.Dir
	Store    *StatusStore
	Stock    providers.StockProvider
	Renderer Renderer
	Logger   *slog.Logger

	// ClipCount is how many stock clips to request per job.
	ClipCount int

	// Timeout bounds a single render job.
	Timeout time.Duration
}

// Job identifies one assembly request.
type Job struct {
	VideoID  string
	ScriptID string
	Topic    string

	// ThumbnailPath is the still-image fallback source.
	ThumbnailPath string
}

// Run executes the full assembly job, reporting progress through the status
// store. It never returns an error: all failures are terminal status writes.
func (r *Runner) Run(ctx context.Context, job Job) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("video_id", job.VideoID, "script_id", job.ScriptID)

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	logger.Info("starting background video assembly")
	r.Store.Update(job.VideoID, api.PhaseProcessing, 10, "Starting video assembly...", "")

	audioPath := r.Home.AudioPath(job.ScriptID)
	if _, err := os.Stat(r.Home.ScriptPath(job.ScriptID)); err != nil {
		r.fail(job.VideoID, "Required files not found")
		return
	}
	if _, err := os.Stat(audioPath); err != nil {
		r.fail(job.VideoID, "Required files not found")
		return
	}

	audioDuration, err := r.Renderer.ProbeDuration(ctx, audioPath)
	if err != nil {
		logger.Warn("failed to probe audio duration, assuming 60s", "error", err)
		audioDuration = 60.0
	}

	r.Store.Update(job.VideoID, api.PhaseProcessing, 30, "Getting stock video clips...", "")

	clipCount := r.ClipCount
	if clipCount <= 0 {
		clipCount = 3
	}

	outputPath := r.Home.VideoPath(job.VideoID)

	clips := r.fetchClips(ctx, job, clipCount, audioDuration, logger)
	if len(clips) > 0 {
		r.Store.Update(job.VideoID, api.PhaseProcessing, 80, "Assembling dynamic video...", "")
		if err := r.Renderer.RenderConcat(ctx, clips, audioPath, audioDuration, outputPath); err != nil {
			logger.Warn("concat render failed, falling back to static video", "error", err)
			clips = nil
		}
	}

	if len(clips) == 0 {
		if job.ThumbnailPath == "" || !fileExists(job.ThumbnailPath) {
			r.fail(job.VideoID, "No thumbnail found for video creation")
			return
		}
		r.Store.Update(job.VideoID, api.PhaseProcessing, 80, "Creating static video with thumbnail...", "")
		if err := r.Renderer.RenderStill(ctx, job.ThumbnailPath, audioPath, outputPath); err != nil {
			if ctx.Err() != nil {
				r.fail(job.VideoID, "Video rendering timed out")
				return
			}
			r.fail(job.VideoID, fmt.Sprintf("Video rendering failed: %v", err))
			return
		}
	}

	r.Store.Update(job.VideoID, api.PhaseProcessing, 95, "Finalizing video file...", "")

	info, err := os.Stat(outputPath)
	if err != nil {
		r.fail(job.VideoID, "Video file was not created")
		return
	}
	if info.Size() < minOutputBytes {
		r.fail(job.VideoID, fmt.Sprintf("Video file too small (%d bytes) - creation failed", info.Size()))
		return
	}

	finalDuration, err := r.Renderer.ProbeDuration(ctx, outputPath)
	if err != nil {
		finalDuration = audioDuration
	}

	clipsUsed := len(clips)
	if clipsUsed == 0 {
		clipsUsed = 1 // Static thumbnail counts as a single clip.
	}

	r.Store.Complete(job.VideoID, finalDuration, info.Size(), clipsUsed, outputPath)
	logger.Info("video assembly completed",
		"size_bytes", info.Size(),
		"duration_seconds", finalDuration,
		"clips_used", clipsUsed,
	)
}

// fetchClips searches and downloads stock clips until the audio duration is
// covered. Any failure degrades to fewer (or zero) clips rather than
// failing the job: the static thumbnail fallback covers the empty case.
func (r *Runner) fetchClips(ctx context.Context, job Job, clipCount int, audioDuration float64, logger *slog.Logger) []string {
	if r.Stock == nil {
		return nil
	}

	search, err := r.Stock.SearchVideos(ctx, job.Topic, clipCount)
	if err != nil {
		logger.Warn("stock footage search failed", "error", err)
		return nil
	}
	if len(search.Clips) == 0 {
		logger.Info("no stock footage found", "topic", job.Topic)
		return nil
	}

	r.Store.Update(job.VideoID, api.PhaseProcessing, 50, "Downloading stock video clips...", "")

	tempDir := r.Home.TempVideoDir(job.VideoID)
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		logger.Warn("failed to create temp clip dir", "error", err)
		return nil
	}

	var paths []string
	var covered float64
	for i, clip := range search.Clips {
		clipPath := filepath.Join(tempDir, fmt.Sprintf("clip_%d.mp4", i))
		if err := r.Stock.DownloadClip(ctx, clip.URL, clipPath); err != nil {
			logger.Warn("clip download failed", "clip_id", clip.ID, "error", err)
			continue
		}

		duration, err := r.Renderer.ProbeDuration(ctx, clipPath)
		if err != nil {
			duration = float64(clip.DurationSeconds)
			if duration > 20 {
				duration = 20
			}
		}

		paths = append(paths, clipPath)
		covered += duration
		if covered >= audioDuration {
			break
		}
	}

	if len(paths) > 0 {
		r.Store.Update(job.VideoID, api.PhaseProcessing, 70, "Creating dynamic video with stock clips...", "")
	}
	return paths
}

func (r *Runner) fail(videoID, reason string) {
	r.Store.Update(videoID, api.PhaseFailed, 0, "", reason)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
