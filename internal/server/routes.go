package server

import (
	"encoding/json"
	"net/http"

	"github.com/jackzampolin/reel/internal/api"
)

// registerRoutes sets up all HTTP routes. GET patterns also match HEAD,
// which the artifact probe relies on for downloads.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/generate-script", s.handleGenerateScript)
	mux.HandleFunc("POST /api/generate-voice", s.handleGenerateVoice)
	mux.HandleFunc("POST /api/generate-thumbnail", s.handleGenerateThumbnail)
	mux.HandleFunc("POST /api/get-stock-videos", s.handleStockVideos)
	mux.HandleFunc("POST /api/generate-youtube-metadata", s.handleMetadata)
	mux.HandleFunc("POST /api/assemble-video", s.handleAssembleVideo)
	mux.HandleFunc("GET /api/video-status/{video_id}", s.handleVideoStatus)
	mux.HandleFunc("GET /api/download/{kind}/{id}", s.handleDownload)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/test-integrations", s.handleTestIntegrations)

	// Raw access to generated artifacts on disk, mirroring the download
	// routes but without forced attachment headers.
	mux.Handle("GET /generated_content/",
		http.StripPrefix("/generated_content/", http.FileServer(http.Dir(s.home.ContentPath()))))

	// Embedded frontend catches everything else.
	mux.HandleFunc("GET /{path...}", s.handleStatic)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error payload with a detail message.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, api.ErrorResponse{Detail: detail})
}

// decodeJSON decodes a request body, rejecting unparseable payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
