package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureExistsCreatesContentTree(t *testing.T) {
	h, err := New(filepath.Join(t.TempDir(), "reel-home"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}

	for _, sub := range []string{"scripts", "audio", "thumbnails", "videos", "status", "tmp"} {
		dir := filepath.Join(h.ContentPath(), sub)
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("missing content dir %s: %v", sub, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestArtifactPaths(t *testing.T) {
	h, err := New("/tmp/reel-home")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		got  string
		want string
	}{
		{h.ScriptPath("abc"), "/tmp/reel-home/content/scripts/abc.txt"},
		{h.AudioPath("abc"), "/tmp/reel-home/content/audio/abc.mp3"},
		{h.ThumbnailPath("def"), "/tmp/reel-home/content/thumbnails/def.png"},
		{h.VideoPath("v1"), "/tmp/reel-home/content/videos/v1.mp4"},
		{h.StatusPath("v1"), "/tmp/reel-home/content/status/v1.json"},
		{h.TempVideoDir("v1"), "/tmp/reel-home/content/tmp/v1"},
		{h.ConfigPath(), "/tmp/reel-home/config.yaml"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("path = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestConfigExists(t *testing.T) {
	h, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if h.ConfigExists() {
		t.Error("ConfigExists() = true before config written")
	}
	if err := os.WriteFile(h.ConfigPath(), []byte("server:\n  port: \"8001\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !h.ConfigExists() {
		t.Error("ConfigExists() = false after config written")
	}
}
