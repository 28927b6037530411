package services

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/robocore-nitk/club-admin/modules/logging/domain/entities/actionlog"
	"github.com/robocore-nitk/club-admin/modules/logging/infrastructure/persistence"
)

func TestLogsService_StampsAndLists(t *testing.T) {
	now := time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC)
	svc := NewLogsService(persistence.NewActionLogRepository(10), clockwork.NewFakeClockAt(now))
	ctx := context.Background()

	require.Error(t, svc.CreateActionLog(ctx, nil))
	require.NoError(t, svc.CreateActionLog(ctx, &actionlog.ActionLog{Module: "recruitment", Action: "deleted", Subject: "panel", SubjectID: 1}))

	logs, count, err := svc.ListActionLogs(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.Equal(t, now, logs[0].CreatedAt)
}
