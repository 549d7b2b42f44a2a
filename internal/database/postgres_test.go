package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestInitPostgresTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS activity_logs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_activity_logs_user_id").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, InitPostgresTables(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInitPostgresTablesStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS activity_logs").WillReturnError(errors.New("permission denied"))

	err = InitPostgresTables(context.Background(), db)
	require.EqualError(t, err, "permission denied")
	require.NoError(t, mock.ExpectationsWereMet())
}
