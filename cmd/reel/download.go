package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/reel/internal/api"
)

var downloadDest string

var artifactExts = map[api.ArtifactKind]string{
	api.ArtifactScript:    ".txt",
	api.ArtifactAudio:     ".mp3",
	api.ArtifactThumbnail: ".png",
	api.ArtifactVideo:     ".mp4",
}

var downloadCmd = &cobra.Command{
	Use:   "download <kind> <id>",
	Short: "Download a generated artifact",
	Long: `Download a generated artifact from the reel server.

Kinds: script, audio, thumbnail, video

Examples:
  reel download video a1b2c3d4
  reel download script a1b2c3d4 --dest my-script.txt`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := api.ArtifactKind(args[0])
		id := args[1]

		ext, ok := artifactExts[kind]
		if !ok {
			return fmt.Errorf("unknown artifact kind %q (want script, audio, thumbnail, or video)", args[0])
		}

		dest := downloadDest
		if dest == "" {
			dest = id + ext
		}

		client := api.NewClient(resolveServerURL())
		if err := client.DownloadArtifact(cmd.Context(), kind, id, dest); err != nil {
			return err
		}
		fmt.Printf("saved %s %s to %s\n", kind, id, dest)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVar(&downloadDest, "dest", "", "Destination path (default: <id>.<ext>)")

	rootCmd.AddCommand(downloadCmd)
}
