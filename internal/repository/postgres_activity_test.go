package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
)

func TestPostgresActivityLogAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO activity_logs").
		WithArgs(sqlmock.AnyArg(), "u1", "signin", "User signed in", `{"ip":"1.2.3.4"}`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresActivityLogRepo(db)
	entry := &models.ActivityLog{
		UserID:      "u1",
		Action:      models.ActionSignIn,
		Description: "User signed in",
		Metadata:    map[string]string{"ip": "1.2.3.4"},
	}
	require.NoError(t, repo.Append(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.False(t, entry.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresActivityLogList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT id, user_id, action").
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "description", "metadata", "created_at", "updated_at"}).
			AddRow("a", "u1", "signup", "User signed up", []byte(`{}`), now, now).
			AddRow("b", "u2", "signin", "User signed in", []byte(`{"ip":"x"}`), now, now))

	logs, total, err := NewPostgresActivityLogRepo(db).List(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, logs, 2)
	require.Equal(t, models.ActionSignUp, logs[0].Action)
	require.Equal(t, "x", logs[1].Metadata["ip"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresActivityLogAppendError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO activity_logs").WillReturnError(context.DeadlineExceeded)

	err = NewPostgresActivityLogRepo(db).Append(context.Background(), &models.ActivityLog{Action: models.ActionSignUp})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}
