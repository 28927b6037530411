package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robocore-nitk/club-admin/modules/logging/domain/entities/actionlog"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	app "github.com/robocore-nitk/club-admin/pkg/application"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	"github.com/robocore-nitk/club-admin/pkg/logging"
)

type stubLogsService struct {
	created []*actionlog.ActionLog
	err     error
}

func (s *stubLogsService) CreateActionLog(ctx context.Context, log *actionlog.ActionLog) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, log)
	return nil
}

func newApp() app.Application {
	return app.New(&app.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logging.Discard()),
	})
}

func TestRecruitmentEventsHandler_RecordsStatusChange(t *testing.T) {
	a := newApp()
	stub := &stubLogsService{}
	RegisterRecruitmentEventHandlers(a, stub)

	a.EventPublisher().Publish(application.StatusChangedEvent{
		PreviousStatus: application.StatusPending,
		Result:         application.New(2, "221CS101", "Asha", application.WithID(11), application.WithStatus(application.StatusScheduled)),
	})

	require.Len(t, stub.created, 1)
	got := stub.created[0]
	require.Equal(t, "recruitment", got.Module)
	require.Equal(t, "status_changed", got.Action)
	require.Equal(t, "application", got.Subject)
	require.Equal(t, int64(11), got.SubjectID)
	require.JSONEq(t, `{"status":"PENDING"}`, string(got.Before))
	require.JSONEq(t, `{"status":"SCHEDULED"}`, string(got.After))
	require.JSONEq(t, `[{"op":"replace","path":"/status","value":"SCHEDULED"}]`, string(got.Patch))
}

func TestRecruitmentEventsHandler_CoversSlotsAndDrives(t *testing.T) {
	a := newApp()
	stub := &stubLogsService{}
	RegisterRecruitmentEventHandlers(a, stub)

	a.EventPublisher().Publish(panel.SlotsGeneratedEvent{PanelID: 3, Count: 4})
	a.EventPublisher().Publish(drive.DeletedEvent{ID: 9})

	require.Len(t, stub.created, 2)
	require.JSONEq(t, `{"count":4}`, string(stub.created[0].After))
	require.Equal(t, "deleted", stub.created[1].Action)
	require.Nil(t, stub.created[1].After)
	require.Nil(t, stub.created[0].Patch)
}

func TestRecruitmentEventsHandler_StoreFailureIsSwallowed(t *testing.T) {
	a := newApp()
	stub := &stubLogsService{err: errors.New("full")}
	RegisterRecruitmentEventHandlers(a, stub)

	require.NotPanics(t, func() {
		a.EventPublisher().Publish(drive.ActivatedEvent{Result: drive.New("2025", drive.WithID(2))})
	})
	require.Empty(t, stub.created)
}
