package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robocore-nitk/club-admin/modules/logging/domain/entities/actionlog"
)

func TestActionLogRepository_NewestFirstAndBounded(t *testing.T) {
	ctx := context.Background()
	repo := NewActionLogRepository(2)
	base := time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC)

	for i, action := range []string{"created", "updated", "deleted"} {
		require.NoError(t, repo.Create(ctx, &actionlog.ActionLog{
			Module:    "recruitment",
			Action:    action,
			Subject:   "drive",
			SubjectID: 2,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	logs, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "deleted", logs[0].Action)
	require.Equal(t, "updated", logs[1].Action)
	require.NotEqual(t, logs[0].ID, logs[1].ID)
}

func TestActionLogRepository_FilterAndPage(t *testing.T) {
	ctx := context.Background()
	repo := NewActionLogRepository(0)
	base := time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC)
	for i := range 5 {
		subject := "application"
		if i%2 == 1 {
			subject = "interview_slot"
		}
		require.NoError(t, repo.Create(ctx, &actionlog.ActionLog{
			Module:    "recruitment",
			Action:    "status_changed",
			Subject:   subject,
			SubjectID: int64(i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	params := &actionlog.FindParams{Subject: "application", Limit: 2}
	logs, err := repo.List(ctx, params)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, int64(4), logs[0].SubjectID)

	n, err := repo.Count(ctx, params)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	from := base.Add(3 * time.Minute)
	n, err = repo.Count(ctx, &actionlog.FindParams{From: &from})
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}
