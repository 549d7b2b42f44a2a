package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// ConnectPostgres opens the optional Postgres pool used for the activity log
// and creates its tables.
func ConnectPostgres(ctx context.Context, postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := InitPostgresTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS activity_logs (
			id UUID PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			action VARCHAR(50) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_logs_user_id ON activity_logs(user_id)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}
