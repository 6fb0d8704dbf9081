package service

import (
	"context"
	"time"

	"github.com/aimhigh31/work-ten-sub005/internal/console/entity"
	"github.com/aimhigh31/work-ten-sub005/internal/console/repository"
	"go.uber.org/zap"
)

// ChangeLogger appends audit entries. Writes are best-effort: a failed append
// is logged and swallowed, it never fails or rolls back the mutation that
// produced it.
type ChangeLogger struct {
	repo   *repository.ChangeLogRepository
	logger *zap.Logger
}

func NewChangeLogger(repo *repository.ChangeLogRepository, logger *zap.Logger) *ChangeLogger {
	return &ChangeLogger{repo: repo, logger: logger}
}

// Actor identifies the session user stamped on entries.
type Actor struct {
	Team string
	Name string
}

// Log appends one entry, stamping the wall clock when the caller left
// LoggedAt empty.
func (c *ChangeLogger) Log(ctx context.Context, log entity.ChangeLog) {
	if log.LoggedAt == "" {
		log.LoggedAt = time.Now().Format("2006-01-02 15:04")
	}
	if err := c.repo.Create(ctx, &log); err != nil {
		c.logger.Warn("change log append failed",
			zap.String("action", log.Action),
			zap.String("target_code", log.TargetCode),
			zap.Error(err))
	}
}

// LogCreate records a creation.
func (c *ChangeLogger) LogCreate(ctx context.Context, actor Actor, targetCode, title string) {
	c.Log(ctx, entity.ChangeLog{
		ActorTeam:   actor.Team,
		ActorName:   actor.Name,
		Action:      "등록",
		TargetCode:  targetCode,
		Description: title,
		EntityTitle: title,
	})
}

// LogFieldChange records one changed field of an update. Updates emit one
// entry per field so the trail stays individually diffable.
func (c *ChangeLogger) LogFieldChange(ctx context.Context, actor Actor, targetCode, title, fieldLabel, before, after string) {
	c.Log(ctx, entity.ChangeLog{
		ActorTeam:   actor.Team,
		ActorName:   actor.Name,
		Action:      "수정",
		TargetCode:  targetCode,
		Description: fieldLabel + ": " + before + " → " + after,
		BeforeValue: before,
		AfterValue:  after,
		FieldLabel:  fieldLabel,
		EntityTitle: title,
	})
}

// LogDelete records a deletion.
func (c *ChangeLogger) LogDelete(ctx context.Context, actor Actor, targetCode, title string) {
	c.Log(ctx, entity.ChangeLog{
		ActorTeam:   actor.Team,
		ActorName:   actor.Name,
		Action:      "삭제",
		TargetCode:  targetCode,
		Description: title,
		EntityTitle: title,
	})
}

// List pages the audit trail for the change-log view.
func (c *ChangeLogger) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ChangeLog, int64, error) {
	return c.repo.FindAll(ctx, page, pageSize, filters)
}
