package services

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"

	"github.com/robocore-nitk/club-admin/modules/logging/domain/entities/actionlog"
)

type LogsService struct {
	actionRepo actionlog.Repository
	clock      clockwork.Clock
}

func NewLogsService(actionRepo actionlog.Repository, clock clockwork.Clock) *LogsService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LogsService{
		actionRepo: actionRepo,
		clock:      clock,
	}
}

func (s *LogsService) ListActionLogs(
	ctx context.Context,
	params *actionlog.FindParams,
) ([]*actionlog.ActionLog, int64, error) {
	if params == nil {
		params = &actionlog.FindParams{}
	}

	logs, err := s.actionRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.actionRepo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return logs, count, nil
}

func (s *LogsService) CreateActionLog(ctx context.Context, log *actionlog.ActionLog) error {
	if log == nil {
		return errors.New("action log payload is required")
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = s.clock.Now()
	}
	return s.actionRepo.Create(ctx, log)
}
