package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/reel/internal/api"
	"github.com/jackzampolin/reel/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	serverURL    string
)

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "AI video generation pipeline for YouTube content",
	Long: `Reel turns a topic into a finished YouTube video: narration script,
voiceover, thumbnail, stock footage, metadata, and a rendered video file.

The pipeline includes:
  - LLM-written narration scripts sized to a target duration
  - ElevenLabs voiceover synthesis
  - DALL-E thumbnail generation
  - Pexels stock footage search
  - ffmpeg video assembly with background job tracking`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.reel/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "reel home directory (default: ~/.reel)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&serverURL, "server", "", "reel server URL (default: from config)",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// resolveServerURL picks the server URL from the flag or config.
func resolveServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	if cm, err := loadConfig(); err == nil {
		return cm.Get().Pipeline.ServerURL
	}
	return "http://127.0.0.1:8001"
}
