package main

import (
	"log"

	"github.com/AnshRaj112/phonebook-backend/internal/server"
	"github.com/spf13/cobra"
)

// indexesCmd creates indexes (MongoDB) or tables (PostgreSQL) and exits.
var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create storage indexes and tables for the configured STORE_DRIVER",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// opening the stores ensures indexes and tables
		stores, err := server.OpenStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		stores.Close()

		log.Printf("✅ Storage ready for driver %q", cfg.StoreDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
