package main

import (
	"github.com/AnshRaj112/phonebook-backend/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return srv.Start(cmd.Context())
}
