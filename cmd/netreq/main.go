package main

import (
	"os"

	"github.com/spf13/cobra"

	"netreq/internal/interfaces/cli/migrate"
	"netreq/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "netreq",
		Short: "Netreq - network request and resource allocation service",
		Long:  `Netreq tracks network access requests against finite equipment pools, with transactional inventory reservation and an administrative review workflow.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
