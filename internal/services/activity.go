package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
	"github.com/AnshRaj112/mealmate-backend/internal/repository"
)

// RequestMeta is the client context attached to audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

func (m RequestMeta) toMap() map[string]string {
	out := map[string]string{}
	if m.IP != "" {
		out["ip"] = m.IP
	}
	if m.UserAgent != "" {
		out["user_agent"] = m.UserAgent
	}
	return out
}

// ActivityRecorder appends audit entries. A failed write is logged and never
// fails the operation being audited.
type ActivityRecorder struct {
	repo   repository.ActivityLogRepository
	logger *zap.Logger
}

func NewActivityRecorder(repo repository.ActivityLogRepository, logger *zap.Logger) *ActivityRecorder {
	return &ActivityRecorder{repo: repo, logger: logger}
}

func (a *ActivityRecorder) Record(ctx context.Context, userID string, action models.ActivityAction, description string, meta RequestMeta) {
	entry := &models.ActivityLog{
		UserID:      userID,
		Action:      action,
		Description: description,
		Metadata:    meta.toMap(),
	}
	if err := a.repo.Append(ctx, entry); err != nil {
		a.logger.Error("failed to record activity",
			zap.String("user_id", userID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}
}

func (a *ActivityRecorder) List(ctx context.Context, limit, skip int64) ([]models.ActivityLog, int64, error) {
	return a.repo.List(ctx, limit, skip)
}
