package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/reel/internal/api"
	"github.com/jackzampolin/reel/internal/pipeline"
)

var (
	generateDuration   int
	generateStockCount int
	generateVerbose    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Run the full video generation pipeline",
	Long: `Run the full generation pipeline against a reel server: script,
voiceover, thumbnail, stock footage, metadata, and video assembly.

Stages run strictly in order and the first failure stops the run;
results from completed stages are still printed. Video assembly runs
in the background on the server and is tracked by polling its status.

Examples:
  reel generate "deep sea creatures"
  reel generate "history of aviation" --duration 10
  reel generate "city timelapses" --server http://localhost:8001 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.TrimSpace(args[0])

		level := slog.LevelWarn
		if generateVerbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		poll := pipeline.DefaultPollConfig()
		if cm, err := loadConfig(); err == nil {
			pc := cm.Get().Pipeline
			if pc.PollIntervalSeconds > 0 {
				poll.Interval = time.Duration(pc.PollIntervalSeconds) * time.Second
			}
			if pc.MaxPolls > 0 {
				poll.MaxPolls = pc.MaxPolls
			}
			if pc.FailureTrustPolls > 0 {
				poll.FailureTrustPolls = pc.FailureTrustPolls
			}
			if pc.ErrorProbeAfter > 0 {
				poll.ErrorProbeAfter = pc.ErrorProbeAfter
			}
		}

		client := api.NewClient(resolveServerURL())
		p := pipeline.New(client, pipeline.Options{
			StockClipCount: generateStockCount,
			Poll:           poll,
			Logger:         logger,
			OnEvent:        printEvent,
		})

		bundle, err := p.Run(cmd.Context(), pipeline.Request{
			Topic:           topic,
			DurationMinutes: generateDuration,
		})
		if bundle != nil {
			if outErr := api.Output(bundle.Snapshot()); outErr != nil {
				return outErr
			}
		}
		return err
	},
}

// printEvent writes pipeline progress to stderr so stdout stays clean for
// the final bundle output.
func printEvent(e pipeline.Event) {
	if e.Err != nil {
		fmt.Fprintf(os.Stderr, "✗ [%s] %s\n", e.Stage, e.Message)
		return
	}
	if e.Stage == pipeline.StageAssembly && e.Progress > 0 {
		fmt.Fprintf(os.Stderr, "  [%s] %3d%% %s\n", e.Stage, e.Progress, e.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "▶ [%s] %s\n", e.Stage, e.Message)
}

func init() {
	generateCmd.Flags().IntVarP(&generateDuration, "duration", "d", 5, "Target video duration in minutes (1-60)")
	generateCmd.Flags().IntVar(&generateStockCount, "stock-count", 10, "Stock clips to search for")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Verbose pipeline logging")

	rootCmd.AddCommand(generateCmd)
}
