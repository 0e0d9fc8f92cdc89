package assembly

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg wraps the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
}

// NewFFmpeg creates an FFmpeg wrapper, defaulting to binaries on PATH.
func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

// CheckAvailable verifies ffmpeg and ffprobe can be found.
func (f *FFmpeg) CheckAvailable() error {
	if _, err := exec.LookPath(f.FFmpegPath); err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}
	if _, err := exec.LookPath(f.FFprobePath); err != nil {
		return fmt.Errorf("ffprobe not found: %w", err)
	}
	return nil
}

// ProbeDuration returns the duration of a media file in seconds.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.FFprobePath,
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// scaleFilter letterboxes input into a 1280x720 frame.
const scaleFilter = "scale=1280:720:force_original_aspect_ratio=decrease,pad=1280:720:(ow-iw)/2:(oh-ih)/2:color=black"

// RenderConcat concatenates clip files and muxes the audio track, limited to
// the audio duration. Clips are re-encoded to fix mismatched timestamps.
func (f *FFmpeg) RenderConcat(ctx context.Context, clipPaths []string, audioPath string, audioDuration float64, outputPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("no clips provided")
	}

	listPath := outputPath + ".clips.txt"
	var lines []string
	for _, p := range clipPaths {
		// The concat demuxer requires quoted, escaped paths.
		escaped := strings.ReplaceAll(p, "'", `'\''`)
		lines = append(lines, fmt.Sprintf("file '%s'", escaped))
	}
	if err := os.WriteFile(listPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}
	defer os.Remove(listPath)

	cmd := exec.CommandContext(ctx, f.FFmpegPath,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-i", audioPath,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "fast",
		"-crf", "28",
		"-vf", scaleFilter,
		"-t", fmt.Sprintf("%.2f", audioDuration),
		"-avoid_negative_ts", "make_zero",
		"-fflags", "+genpts",
		"-movflags", "+faststart",
		"-max_muxing_queue_size", "1024",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg concat render failed: %w\noutput: %s", err, truncate(string(output), 500))
	}
	return nil
}

// RenderStill renders a static-image video from a thumbnail and audio track.
// Fallback path when no stock clips are available.
func (f *FFmpeg) RenderStill(ctx context.Context, imagePath, audioPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, f.FFmpegPath,
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-i", audioPath,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "fast",
		"-crf", "28",
		"-r", "25",
		"-pix_fmt", "yuv420p",
		"-vf", scaleFilter,
		"-shortest",
		"-movflags", "+faststart",
		"-max_muxing_queue_size", "1024",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg still render failed: %w\noutput: %s", err, truncate(string(output), 500))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
