package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/AnshRaj112/phonebook-backend/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd serves the API when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "phonebook",
	Short: "Contacts and user accounts REST backend",
	Long: `Contacts and user accounts REST backend. Usage:

	phonebook            start the HTTP server
	phonebook serve      same as above
	phonebook indexes    create storage indexes/tables and exit
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load env
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found")
		}
	},
	RunE: runServe,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the environment configuration.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
