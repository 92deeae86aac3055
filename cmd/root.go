package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "todo",
		Short:         "A todo record store that notifies on every change",
		Long:          `Todo keeps todo items behind an HTTP API and publishes a notification for every change on MQTT style topics (todos/<id>), streamed over SSE and relayed to pulsar or redis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
}
