package assembly

import (
	"context"
	"os"

	"github.com/jackzampolin/reel/internal/api"
)

// minRecoverableBytes is the smallest artifact size trusted by the recovery
// path. Anything smaller is assumed to be a partial write.
const minRecoverableBytes = 50_000

// Recover reconciles a job's reported status against the artifact on disk.
// The status channel and the filesystem can disagree: a render can finish
// and write its output while the status update that should follow is lost
// (process restart, crash between steps). When the status still says
// processing or failed but a plausible video exists, the artifact wins and
// the status is rewritten to completed with probed metadata.
//
// Returns the possibly-updated status.
func (s *StatusStore) Recover(ctx context.Context, st api.JobStatus, renderer Renderer, videoPath string) api.JobStatus {
	if st.Status != api.PhaseProcessing && st.Status != api.PhaseFailed {
		return st
	}

	info, err := os.Stat(videoPath)
	if err != nil || info.Size() < minRecoverableBytes {
		return st
	}

	s.logger.Info("recovering job status from artifact on disk",
		"video_id", st.VideoID, "size_bytes", info.Size())

	duration := st.DurationSeconds
	if renderer != nil {
		if probed, err := renderer.ProbeDuration(ctx, videoPath); err == nil {
			duration = probed
		}
	}
	if duration == 0 {
		duration = 60
	}

	clips := st.ClipsUsed
	if clips == 0 {
		clips = 1
	}

	st.Status = api.PhaseCompleted
	st.Progress = 100
	st.Message = "Video ready for download!"
	st.Error = ""
	st.DurationSeconds = duration
	st.FileSize = info.Size()
	st.ClipsUsed = clips
	st.VideoPath = videoPath

	s.Set(st)
	return st
}
