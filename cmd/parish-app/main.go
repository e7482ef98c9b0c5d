package main

import (
	"os"

	"parish-app-go/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	log := logger.NewFromEnv()
	if err := newRootCommand(log).Execute(); err != nil {
		log.Critical("app: command failed", "err", err)
		os.Exit(1)
	}
}

func newRootCommand(log logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "parish-app",
		Short:         "Parish back-office API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCommand(log))
	cmd.AddCommand(newMigrateCommand(log))
	return cmd
}
