package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/reel/internal/api"
	"github.com/jackzampolin/reel/internal/assembly"
	"github.com/jackzampolin/reel/internal/providers"
)

// newArtifactID generates a short ID for stored artifacts.
func newArtifactID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *Server) handleGenerateScript(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateScriptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.DurationMinutes < 1 || req.DurationMinutes > 60 {
		writeError(w, http.StatusBadRequest, "duration_minutes must be between 1 and 60")
		return
	}

	provider := s.registry.Script()
	if provider == nil {
		writeError(w, http.StatusServiceUnavailable, "script provider not configured")
		return
	}

	result, err := provider.GenerateScript(r.Context(), &providers.ScriptRequest{
		Topic:           req.Topic,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		s.logger.Error("script generation failed", "topic", req.Topic, "error", err)
		writeError(w, http.StatusInternalServerError, "script generation failed: "+err.Error())
		return
	}

	scriptID := newArtifactID()
	if err := os.WriteFile(s.home.ScriptPath(scriptID), []byte(result.Text), 0o644); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store script: "+err.Error())
		return
	}

	s.logger.Info("script generated",
		"script_id", scriptID,
		"words", result.WordCount,
		"model", result.ModelUsed,
		"took", result.ExecutionTime,
	)

	estimated := result.WordCount / 150
	if estimated < 1 {
		estimated = 1
	}
	writeJSON(w, http.StatusOK, api.GenerateScriptResponse{
		ScriptID:          scriptID,
		Content:           result.Text,
		WordCount:         result.WordCount,
		EstimatedDuration: estimated,
	})
}

func (s *Server) handleGenerateVoice(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateVoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ScriptID == "" {
		writeError(w, http.StatusBadRequest, "script_id is required")
		return
	}

	content, err := os.ReadFile(s.home.ScriptPath(req.ScriptID))
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "script not found: "+req.ScriptID)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read script: "+err.Error())
		return
	}

	tts := s.registry.TTS()
	if tts == nil {
		writeError(w, http.StatusServiceUnavailable, "tts provider not configured")
		return
	}

	result, err := tts.Generate(r.Context(), &providers.TTSRequest{Text: string(content)})
	if err != nil {
		s.logger.Error("voice synthesis failed", "script_id", req.ScriptID, "error", err)
		writeError(w, http.StatusInternalServerError, "voice synthesis failed: "+err.Error())
		return
	}
	if !result.Success {
		writeError(w, http.StatusInternalServerError, "voice synthesis failed: "+result.ErrorMessage)
		return
	}

	if err := os.WriteFile(s.home.AudioPath(req.ScriptID), result.Audio, 0o644); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store audio: "+err.Error())
		return
	}

	s.logger.Info("voiceover synthesized",
		"script_id", req.ScriptID,
		"chars", result.CharCount,
		"bytes", len(result.Audio),
		"took", result.ExecutionTime,
	)
	writeJSON(w, http.StatusOK, api.GenerateVoiceResponse{ScriptID: req.ScriptID, Status: "generated"})
}

func (s *Server) handleGenerateThumbnail(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateThumbnailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	provider := s.registry.Image()
	if provider == nil {
		writeError(w, http.StatusServiceUnavailable, "image provider not configured")
		return
	}

	result, err := provider.GenerateImage(r.Context(), req.Topic)
	if err != nil {
		s.logger.Error("thumbnail generation failed", "topic", req.Topic, "error", err)
		writeError(w, http.StatusInternalServerError, "thumbnail generation failed: "+err.Error())
		return
	}

	thumbnailID := newArtifactID()
	// Keep a local copy so assembly can use it as the still-image fallback.
	// The response is still useful if the fetch fails.
	if err := fetchToFile(r.Context(), result.URL, s.home.ThumbnailPath(thumbnailID)); err != nil {
		s.logger.Warn("failed to store thumbnail locally", "thumbnail_id", thumbnailID, "error", err)
	}

	s.logger.Info("thumbnail generated", "thumbnail_id", thumbnailID, "model", result.ModelUsed)
	writeJSON(w, http.StatusOK, api.GenerateThumbnailResponse{
		ThumbnailID: thumbnailID,
		ImageURL:    result.URL,
	})
}

func (s *Server) handleStockVideos(w http.ResponseWriter, r *http.Request) {
	var req api.StockVideosRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.Count <= 0 {
		req.Count = 5
	}

	provider := s.registry.Stock()
	if provider == nil {
		writeError(w, http.StatusServiceUnavailable, "stock footage provider not configured")
		return
	}

	result, err := provider.SearchVideos(r.Context(), req.Topic, req.Count)
	if err != nil {
		s.logger.Error("stock search failed", "topic", req.Topic, "error", err)
		writeError(w, http.StatusInternalServerError, "stock footage search failed: "+err.Error())
		return
	}

	videos := make([]api.StockVideo, len(result.Clips))
	for i, clip := range result.Clips {
		videos[i] = api.StockVideo{
			ID:              clip.ID,
			URL:             clip.URL,
			DurationSeconds: clip.DurationSeconds,
			Attribution:     clip.Attribution,
		}
	}
	writeJSON(w, http.StatusOK, api.StockVideosResponse{Videos: videos, TotalFound: result.TotalFound})
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	var req api.MetadataRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	provider := s.registry.Script()
	if provider == nil {
		writeError(w, http.StatusServiceUnavailable, "script provider not configured")
		return
	}

	result, err := provider.GenerateMetadata(r.Context(), &providers.MetadataRequest{
		Topic:      req.Topic,
		ScriptText: req.ScriptContent,
	})
	if err != nil {
		s.logger.Error("metadata generation failed", "topic", req.Topic, "error", err)
		writeError(w, http.StatusInternalServerError, "metadata generation failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, api.MetadataResponse{
		Topic:       req.Topic,
		Titles:      result.Titles,
		Description: result.Description,
		Tags:        result.Tags,
	})
}

func (s *Server) handleAssembleVideo(w http.ResponseWriter, r *http.Request) {
	var req api.AssembleVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ScriptID == "" {
		writeError(w, http.StatusBadRequest, "script_id is required")
		return
	}

	if _, err := os.Stat(s.home.ScriptPath(req.ScriptID)); err != nil {
		writeError(w, http.StatusNotFound, "script not found: "+req.ScriptID)
		return
	}
	if _, err := os.Stat(s.home.AudioPath(req.ScriptID)); err != nil {
		writeError(w, http.StatusBadRequest, "no voiceover audio for script "+req.ScriptID+"; generate voice first")
		return
	}

	videoID := newArtifactID()
	s.store.Update(videoID, api.PhaseQueued, 0, "Video assembly started", "")

	runner := &assembly.Runner{
		Home:      s.home,
		Store:     s.store,
		Stock:     s.registry.Stock(),
		Renderer:  s.ffmpeg,
		Logger:    s.logger,
		ClipCount: s.clipCount,
		Timeout:   s.renderTimeout,
	}
	job := assembly.Job{
		VideoID:       videoID,
		ScriptID:      req.ScriptID,
		Topic:         req.Topic,
		ThumbnailPath: s.latestThumbnail(),
	}

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		runner.Run(s.baseCtx, job)
	}()

	s.logger.Info("assembly job started", "video_id", videoID, "script_id", req.ScriptID)
	writeJSON(w, http.StatusOK, api.AssembleVideoResponse{
		VideoID: videoID,
		Status:  api.PhaseQueued,
		Message: "Video assembly started",
	})
}

func (s *Server) handleVideoStatus(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("video_id")
	st, ok := s.store.Get(videoID)
	if !ok {
		writeError(w, http.StatusNotFound, "video status not found: "+videoID)
		return
	}
	// A status file can go stale while its output exists on disk; prefer
	// what the filesystem says.
	st = s.store.Recover(r.Context(), st, s.ffmpeg, s.home.VideoPath(videoID))
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	kind := api.ArtifactKind(r.PathValue("kind"))
	id := r.PathValue("id")

	var path, contentType string
	switch kind {
	case api.ArtifactScript:
		path, contentType = s.home.ScriptPath(id), "text/plain; charset=utf-8"
	case api.ArtifactAudio:
		path, contentType = s.home.AudioPath(id), "audio/mpeg"
	case api.ArtifactThumbnail:
		path, contentType = s.home.ThumbnailPath(id), "image/png"
	case api.ArtifactVideo:
		path, contentType = s.home.VideoPath(id), "video/mp4"
	default:
		writeError(w, http.StatusBadRequest, "unknown artifact kind: "+string(kind))
		return
	}

	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found: %s", kind, id))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
	http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:  "healthy",
		Message: "reel server is running",
	})
}

func (s *Server) handleTestIntegrations(w http.ResponseWriter, r *http.Request) {
	type checker interface {
		Name() string
		HealthCheck(ctx context.Context) error
	}

	results := map[string]api.IntegrationResult{}
	check := func(name string, c checker) {
		if c == nil {
			results[name] = api.IntegrationResult{Status: "error", Error: "not configured"}
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		if err := c.HealthCheck(ctx); err != nil {
			results[name] = api.IntegrationResult{Status: "error", Error: err.Error(), Detail: c.Name()}
			return
		}
		results[name] = api.IntegrationResult{Status: "success", Detail: c.Name()}
	}

	check("openai", s.registry.Script())
	check("elevenlabs", s.registry.TTS())
	check("pexels", s.registry.Stock())

	writeJSON(w, http.StatusOK, results)
}

// latestThumbnail returns the most recently written thumbnail, or "" when
// none exist. Assembly uses it as the static fallback image.
func (s *Server) latestThumbnail() string {
	dir := filepath.Dir(s.home.ThumbnailPath("x"))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(dir, e.Name())
			newestMod = info.ModTime()
		}
	}
	return newest
}

// fetchToFile downloads url to destPath.
func fetchToFile(ctx context.Context, url, destPath string) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(destPath)
		return err
	}
	return nil
}
