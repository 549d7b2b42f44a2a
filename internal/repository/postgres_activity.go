package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

// PostgresActivityLogRepo writes the audit trail to the activity_logs table
// created by database.InitPostgresTables.
type PostgresActivityLogRepo struct {
	db *sql.DB
}

func NewPostgresActivityLogRepo(db *sql.DB) *PostgresActivityLogRepo {
	return &PostgresActivityLogRepo{db: db}
}

func (r *PostgresActivityLogRepo) Append(ctx context.Context, entry *models.ActivityLog) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	id := uuid.New()
	now := time.Now()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, user_id, action, description, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, entry.UserID, string(entry.Action), entry.Description, string(metadataJSON), now, now)
	if err != nil {
		return err
	}

	entry.ID = id.String()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return nil
}

func (r *PostgresActivityLogRepo) List(ctx context.Context, limit, skip int64) ([]models.ActivityLog, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, action, description, metadata, created_at, updated_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := make([]models.ActivityLog, 0)
	for rows.Next() {
		var (
			entry    models.ActivityLog
			action   string
			metadata []byte
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &action, &entry.Description, &metadata, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, 0, err
		}
		entry.Action = models.ActivityAction(action)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, 0, err
			}
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
