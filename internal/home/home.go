package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the reel home directory.
	DefaultDirName = ".reel"

	// ContentDirName is the subdirectory for generated content.
	ContentDirName = "content"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// contentSubdirs are created under content/ for each artifact kind.
var contentSubdirs = []string{"scripts", "audio", "thumbnails", "videos", "status", "tmp"}

// Dir represents the reel home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.reel).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ContentPath returns the path to the generated content directory.
func (d *Dir) ContentPath() string {
	return filepath.Join(d.path, ContentDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and content subdirectories if they
// don't exist.
func (d *Dir) EnsureExists() error {
	for _, sub := range contentSubdirs {
		if err := os.MkdirAll(filepath.Join(d.ContentPath(), sub), 0o755); err != nil {
			return fmt.Errorf("failed to create content directory: %w", err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// ScriptPath returns the path to a generated script.
func (d *Dir) ScriptPath(scriptID string) string {
	return filepath.Join(d.ContentPath(), "scripts", scriptID+".txt")
}

// AudioPath returns the path to generated voiceover audio.
// Audio is keyed by the script it narrates.
func (d *Dir) AudioPath(scriptID string) string {
	return filepath.Join(d.ContentPath(), "audio", scriptID+".mp3")
}

// ThumbnailPath returns the path to a generated thumbnail image.
func (d *Dir) ThumbnailPath(thumbnailID string) string {
	return filepath.Join(d.ContentPath(), "thumbnails", thumbnailID+".png")
}

// VideoPath returns the path to an assembled video.
func (d *Dir) VideoPath(videoID string) string {
	return filepath.Join(d.ContentPath(), "videos", videoID+".mp4")
}

// StatusPath returns the path to a persisted job status record.
func (d *Dir) StatusPath(videoID string) string {
	return filepath.Join(d.ContentPath(), "status", videoID+".json")
}

// StatusDir returns the directory holding persisted job status records.
func (d *Dir) StatusDir() string {
	return filepath.Join(d.ContentPath(), "status")
}

// TempVideoDir returns a per-job scratch directory for downloaded clips.
func (d *Dir) TempVideoDir(videoID string) string {
	return filepath.Join(d.ContentPath(), "tmp", videoID)
}
