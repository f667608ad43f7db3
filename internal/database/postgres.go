package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(ctx context.Context, postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("✅ Connected to PostgreSQL")
	return db, nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			subscription VARCHAR(20) NOT NULL DEFAULT 'starter',
			avatar_url TEXT NOT NULL DEFAULT '',
			verify BOOLEAN NOT NULL DEFAULT FALSE,
			verification_token VARCHAR(255),
			token TEXT NOT NULL DEFAULT ''
		)`,

		// seq preserves insertion order for pagination
		`CREATE TABLE IF NOT EXISTS contacts (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(50) NOT NULL,
			favorite BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_verification_token ON users(verification_token)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_seq ON contacts(seq)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_favorite ON contacts(favorite)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}
