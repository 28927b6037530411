package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robocore-nitk/club-admin/modules/logging/services"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/pkg/application"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	pkglogging "github.com/robocore-nitk/club-admin/pkg/logging"
)

func TestModule_PersistsRecruitmentEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.jsonl")
	newApp := func() application.Application {
		return application.New(&application.ApplicationOptions{
			EventBus: eventbus.NewEventPublisher(pkglogging.Discard()),
			Logger:   pkglogging.Discard(),
		})
	}

	app := newApp()
	require.NoError(t, NewModule(WithActionLogPath(path)).Register(app))
	app.EventPublisher().Publish(drive.DeletedEvent{ID: 2})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"subject":"drive"`)

	next := newApp()
	require.NoError(t, NewModule(WithActionLogPath(path)).Register(next))
	svc := next.Service(services.LogsService{}).(*services.LogsService)
	logs, total, err := svc.ListActionLogs(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "deleted", logs[0].Action)
	require.Equal(t, int64(2), logs[0].SubjectID)
}
