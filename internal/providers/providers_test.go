package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScriptWordTarget(t *testing.T) {
	tests := []struct {
		minutes int
		want    int
	}{
		{1, 150},
		{5, 750},
		{10, 1500},
		{0, 150}, // floor
	}
	for _, tt := range tests {
		if got := ScriptWordTarget(tt.minutes); got != tt.want {
			t.Errorf("ScriptWordTarget(%d) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

func TestScriptModelSelection(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{APIKey: "test"})

	if got := c.scriptModelFor(5); got != openAIDefaultScriptModel {
		t.Errorf("scriptModelFor(5) = %q, want %q", got, openAIDefaultScriptModel)
	}
	if got := c.scriptModelFor(6); got != openAIDefaultLongformModel {
		t.Errorf("scriptModelFor(6) = %q, want %q", got, openAIDefaultLongformModel)
	}
}

func TestCleanScriptForSynthesis(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "timestamp markers stripped",
			input: "Hello [TIMESTAMP:00:30 world",
			want:  "Hello 00:30 world",
		},
		{
			name:  "pause becomes ellipsis",
			input: "First.[PAUSE]Second.",
			want:  "First.... Second.",
		},
		{
			name:  "emphasis markers stripped",
			input: "This is [EMPHASIS]important]",
			want:  "This is important",
		},
		{
			name:  "plain text unchanged",
			input: "Just a normal sentence.",
			want:  "Just a normal sentence.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanScriptForSynthesis(tt.input); got != tt.want {
				t.Errorf("CleanScriptForSynthesis(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestElevenLabsGenerate(t *testing.T) {
	var gotPath, gotFormat, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFormat = r.URL.Query().Get("output_format")
		gotKey = r.Header.Get("xi-api-key")
		w.Write([]byte("fake-mp3-bytes"))
	}))
	defer srv.Close()

	c := NewElevenLabsTTSClient(ElevenLabsTTSConfig{
		APIKey:  "key123",
		Voice:   "voice-a",
		BaseURL: srv.URL,
	})

	result, err := c.Generate(context.Background(), &TTSRequest{Text: "Hello world"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("result not successful: %s", result.ErrorMessage)
	}
	if string(result.Audio) != "fake-mp3-bytes" {
		t.Errorf("audio = %q", result.Audio)
	}
	if result.CharCount != len("Hello world") {
		t.Errorf("char count = %d", result.CharCount)
	}

	if gotPath != "/text-to-speech/voice-a" {
		t.Errorf("path = %q", gotPath)
	}
	if gotFormat != "mp3_22050_32" {
		t.Errorf("output_format = %q", gotFormat)
	}
	if gotKey != "key123" {
		t.Errorf("xi-api-key = %q", gotKey)
	}
}

func TestElevenLabsGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"status":"invalid_api_key","message":"Invalid API key"}}`))
	}))
	defer srv.Close()

	c := NewElevenLabsTTSClient(ElevenLabsTTSConfig{APIKey: "bad", Voice: "v", BaseURL: srv.URL})

	result, err := c.Generate(context.Background(), &TTSRequest{Text: "Hello"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Errorf("error = %v, want the API detail message", err)
	}
	if result.Success {
		t.Error("result reports success on error")
	}
}

func TestElevenLabsGenerateEmptyText(t *testing.T) {
	c := NewElevenLabsTTSClient(ElevenLabsTTSConfig{APIKey: "k", Voice: "v"})

	if _, err := c.Generate(context.Background(), &TTSRequest{Text: "   "}); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestPexelsSearchVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "pexels-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "ocean waves" {
			t.Errorf("query = %q", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "2" {
			t.Errorf("per_page = %q", got)
		}
		w.Write([]byte(`{
			"videos": [
				{
					"id": 101,
					"duration": 14,
					"user": {"name": "Alice"},
					"video_files": [
						{"quality": "sd", "link": "http://cdn.test/101-sd.mp4"},
						{"quality": "hd", "link": "http://cdn.test/101-hd.mp4"}
					]
				},
				{
					"id": 102,
					"duration": 9,
					"user": {"name": "Bob"},
					"video_files": [
						{"quality": "sd", "link": "http://cdn.test/102-sd.mp4"}
					]
				},
				{
					"id": 103,
					"duration": 5,
					"user": {"name": "Carol"},
					"video_files": []
				}
			]
		}`))
	}))
	defer srv.Close()

	c := NewPexelsClient(PexelsConfig{APIKey: "pexels-key", BaseURL: srv.URL})

	result, err := c.SearchVideos(context.Background(), "ocean waves", 2)
	if err != nil {
		t.Fatalf("SearchVideos() error = %v", err)
	}
	if result.TotalFound != 2 {
		t.Fatalf("total found = %d, want 2 (clip with no files skipped)", result.TotalFound)
	}
	if result.Clips[0].URL != "http://cdn.test/101-hd.mp4" {
		t.Errorf("first clip url = %q, want the hd rendition", result.Clips[0].URL)
	}
	if result.Clips[1].URL != "http://cdn.test/102-sd.mp4" {
		t.Errorf("second clip url = %q, want sd fallback", result.Clips[1].URL)
	}
	if result.Clips[0].Attribution != "Alice" {
		t.Errorf("attribution = %q", result.Clips[0].Attribution)
	}
}

func TestPexelsDownloadClip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("clip-bytes"))
	}))
	defer srv.Close()

	c := NewPexelsClient(PexelsConfig{APIKey: "k"})
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	if err := c.DownloadClip(context.Background(), srv.URL+"/clip.mp4", dest); err != nil {
		t.Fatalf("DownloadClip() error = %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "clip-bytes" {
		t.Errorf("downloaded = %q", data)
	}
}

func TestPexelsDownloadClipRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("clip-bytes"))
	}))
	defer srv.Close()

	c := NewPexelsClient(PexelsConfig{APIKey: "k", MaxRetries: 3})
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	if err := c.DownloadClip(context.Background(), srv.URL+"/clip.mp4", dest); err != nil {
		t.Fatalf("DownloadClip() error = %v after retries", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestParseMetadata(t *testing.T) {
	valid := `{
		"titles": ["One", "Two", "Three"],
		"description": "A description.",
		"tags": ["a","b","c","d","e","f","g","h","i","j"]
	}`

	t.Run("valid", func(t *testing.T) {
		result, err := parseMetadata(valid)
		if err != nil {
			t.Fatalf("parseMetadata() error = %v", err)
		}
		if len(result.Titles) != 3 || len(result.Tags) != 10 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("markdown fenced", func(t *testing.T) {
		fenced := "Here is the metadata:\n```json\n" + valid + "\n```"
		result, err := parseMetadata(fenced)
		if err != nil {
			t.Fatalf("parseMetadata() error = %v", err)
		}
		if result.Description != "A description." {
			t.Errorf("description = %q", result.Description)
		}
	})

	t.Run("wrong title count", func(t *testing.T) {
		bad := `{"titles": ["Only One"], "description": "d", "tags": ["a","b","c","d","e","f","g","h","i","j"]}`
		if _, err := parseMetadata(bad); err == nil {
			t.Fatal("expected schema validation error")
		}
	})

	t.Run("too few tags", func(t *testing.T) {
		bad := `{"titles": ["A","B","C"], "description": "d", "tags": ["a","b"]}`
		if _, err := parseMetadata(bad); err == nil {
			t.Fatal("expected schema validation error")
		}
	})

	t.Run("no json", func(t *testing.T) {
		if _, err := parseMetadata("sorry, I cannot help with that"); err == nil {
			t.Fatal("expected error for missing JSON")
		}
	})
}
