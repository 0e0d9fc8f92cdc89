package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/reel/internal/api"
)

var statusCmd = &cobra.Command{
	Use:   "status <video-id>",
	Short: "Show the status of a video assembly job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := api.NewClient(resolveServerURL())
		st, err := client.JobStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return api.Output(st)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check reel server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := api.NewClient(resolveServerURL())
		resp, err := client.Health(cmd.Context())
		if err != nil {
			return err
		}
		return api.Output(resp)
	},
}

var integrationsCmd = &cobra.Command{
	Use:   "integrations",
	Short: "Test provider integrations (OpenAI, ElevenLabs, Pexels)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := api.NewClient(resolveServerURL())
		results, err := client.TestIntegrations(cmd.Context())
		if err != nil {
			return err
		}
		return api.Output(results)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(integrationsCmd)
}
