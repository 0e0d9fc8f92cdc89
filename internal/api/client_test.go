package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScriptDeadlineScalesWithDuration(t *testing.T) {
	d := DefaultDeadlines()

	tests := []struct {
		minutes int
		want    time.Duration
	}{
		{1, 40 * time.Second},
		{5, 80 * time.Second},
		{15, 180 * time.Second}, // capped
		{60, 180 * time.Second},
	}
	for _, tt := range tests {
		if got := d.ScriptDeadline(tt.minutes); got != tt.want {
			t.Errorf("ScriptDeadline(%d) = %v, want %v", tt.minutes, got, tt.want)
		}
	}
}

func TestProbeArtifact(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    bool
		wantErr bool
	}{
		{"ok", http.StatusOK, true, false},
		{"no content", http.StatusNoContent, true, false},
		{"method not allowed counts as existence", http.StatusMethodNotAllowed, true, false},
		{"not found", http.StatusNotFound, false, false},
		{"server error", http.StatusInternalServerError, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("method = %s, want HEAD", r.Method)
				}
				if r.URL.Path != "/api/download/video/v1" {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			exists, err := c.ProbeArtifact(context.Background(), "v1")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ProbeArtifact() error = %v", err)
			}
			if exists != tt.want {
				t.Errorf("exists = %v, want %v", exists, tt.want)
			}
		})
	}
}

func TestProviderErrorUsesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "topic is required"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GenerateScript(context.Background(), "", 5)
	if err == nil {
		t.Fatal("expected error")
	}

	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("error type = %T", err)
	}
	if opErr.Kind != KindProvider || opErr.Status != http.StatusBadRequest {
		t.Errorf("opErr = %+v", opErr)
	}
	if opErr.Detail != "topic is required" {
		t.Errorf("detail = %q", opErr.Detail)
	}
	if IsTimeout(err) {
		t.Error("provider rejection classified as timeout")
	}
}

func TestTimeoutClassification(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer slow.Close()

	c := NewClient(slow.URL)
	d := DefaultDeadlines()
	d.Status = 20 * time.Millisecond
	c.SetDeadlines(d)

	_, err := c.JobStatus(context.Background(), "v1")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("err = %v, want timeout classification", err)
	}
}

func TestTransportErrorClassification(t *testing.T) {
	// Nothing listens here.
	c := NewClient("http://127.0.0.1:1")

	_, err := c.JobStatus(context.Background(), "v1")
	if err == nil {
		t.Fatal("expected error")
	}
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("error type = %T", err)
	}
	if opErr.Kind != KindTransport {
		t.Errorf("kind = %v, want transport", opErr.Kind)
	}
	if IsTimeout(err) {
		t.Error("connection refusal classified as timeout")
	}
}

func TestJobStatusDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"video_id": "v1",
			"status": "completed",
			"progress": 100,
			"message": "Video ready for download!",
			"duration": 58.4,
			"file_size": 2400000,
			"clips_used": 3
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	st, err := c.JobStatus(context.Background(), "v1")
	if err != nil {
		t.Fatalf("JobStatus() error = %v", err)
	}
	if st.Status != PhaseCompleted || st.Progress != 100 {
		t.Errorf("status = %+v", st)
	}
	if st.DurationSeconds != 58.4 || st.FileSize != 2400000 || st.ClipsUsed != 3 {
		t.Errorf("metadata = %+v", st)
	}
}

func TestDownloadArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/download/video/v1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte("video-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	dest := filepath.Join(t.TempDir(), "out.mp4")
	if err := c.DownloadArtifact(context.Background(), ArtifactVideo, "v1", dest); err != nil {
		t.Fatalf("DownloadArtifact() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "video-bytes" {
		t.Errorf("downloaded = %q", data)
	}
}
