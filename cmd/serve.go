package cmd

import (
	"github.com/spf13/cobra"

	"github.com/resumine/resumine/internal/config"
	"github.com/resumine/resumine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the http server",
	Run: func(cmd *cobra.Command, args []string) {
		server.NewServer(config.LoadConfig()).Start()
	},
}
