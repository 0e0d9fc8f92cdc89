// Package assembly implements the background video render job and its
// status tracking.
package assembly

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jackzampolin/reel/internal/api"
	"github.com/jackzampolin/reel/internal/home"
)

// StatusStore tracks assembly job status in memory and mirrors each record
// to a JSON file so status survives server restarts. Records are cleared on
// startup: stale failure states from a previous process caused more
// confusion than the lost history was worth.
type StatusStore struct {
	mu      sync.RWMutex
	status  map[string]api.JobStatus
	home    *home.Dir
	logger  *slog.Logger
	now     func() time.Time
	watcher func(api.JobStatus) // test hook, called on every update
}

// NewStatusStore creates a status store persisting under the home directory.
func NewStatusStore(h *home.Dir, logger *slog.Logger) *StatusStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusStore{
		status: make(map[string]api.JobStatus),
		home:   h,
		logger: logger,
		now:    time.Now,
	}
}

// ClearAll removes all in-memory status and persisted status files.
// Called on server startup.
func (s *StatusStore) ClearAll() {
	s.mu.Lock()
	s.status = make(map[string]api.JobStatus)
	s.mu.Unlock()

	removed := 0
	entries, err := os.ReadDir(s.home.StatusDir())
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if os.Remove(filepath.Join(s.home.StatusDir(), entry.Name())) == nil {
			removed++
		}
	}
	s.logger.Info("job status cache cleared on startup", "persisted_files_removed", removed)
}

// Update records a status transition for a job.
func (s *StatusStore) Update(videoID string, phase api.Phase, progress int, message, errText string) {
	s.mu.Lock()
	st := s.status[videoID]
	st.VideoID = videoID
	st.Status = phase
	st.Progress = progress
	st.Message = message
	st.Error = errText
	st.Timestamp = s.now()
	s.status[videoID] = st
	watcher := s.watcher
	s.mu.Unlock()

	s.persist(st)
	if watcher != nil {
		watcher(st)
	}
}

// Complete marks a job completed with artifact metadata.
func (s *StatusStore) Complete(videoID string, durationSeconds float64, fileSize int64, clipsUsed int, videoPath string) {
	s.mu.Lock()
	st := s.status[videoID]
	st.VideoID = videoID
	st.Status = api.PhaseCompleted
	st.Progress = 100
	st.Message = "Video ready for download!"
	st.Error = ""
	st.Timestamp = s.now()
	st.DurationSeconds = durationSeconds
	st.FileSize = fileSize
	st.ClipsUsed = clipsUsed
	st.VideoPath = videoPath
	s.status[videoID] = st
	watcher := s.watcher
	s.mu.Unlock()

	s.persist(st)
	if watcher != nil {
		watcher(st)
	}
}

// Get returns the status for a job, falling back to the persisted file when
// the record is not in memory (e.g. after a restart before ClearAll policy
// changes). The boolean reports whether any record was found.
func (s *StatusStore) Get(videoID string) (api.JobStatus, bool) {
	s.mu.RLock()
	st, ok := s.status[videoID]
	s.mu.RUnlock()
	if ok {
		return st, true
	}

	data, err := os.ReadFile(s.home.StatusPath(videoID))
	if err != nil {
		return api.JobStatus{}, false
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return api.JobStatus{}, false
	}

	// Cache back in memory.
	s.mu.Lock()
	s.status[videoID] = st
	s.mu.Unlock()
	return st, true
}

// Set replaces a job's full status record. Used by the recovery path.
func (s *StatusStore) Set(st api.JobStatus) {
	s.mu.Lock()
	s.status[st.VideoID] = st
	watcher := s.watcher
	s.mu.Unlock()

	s.persist(st)
	if watcher != nil {
		watcher(st)
	}
}

// SetWatcher installs a test hook invoked on every status write.
func (s *StatusStore) SetWatcher(fn func(api.JobStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcher = fn
}

func (s *StatusStore) persist(st api.JobStatus) {
	data, err := json.Marshal(st)
	if err != nil {
		s.logger.Error("failed to marshal job status", "video_id", st.VideoID, "error", err)
		return
	}

	path := s.home.StatusPath(st.VideoID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.logger.Error("failed to create status dir", "error", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error("failed to persist job status", "video_id", st.VideoID, "error", err)
	}
}

// String implements fmt.Stringer for debug logging.
func (s *StatusStore) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("StatusStore(%d jobs)", len(s.status))
}
