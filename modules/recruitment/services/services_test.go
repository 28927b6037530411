package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/value_objects/evaluation"
	"github.com/robocore-nitk/club-admin/pkg/fields"
	"github.com/robocore-nitk/club-admin/pkg/listview"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

var slotStart = time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)

func score(v float64) *float64 { return &v }

func TestDriveService_CreateValidatesFieldMapping(t *testing.T) {
	bus, rec := newBus()
	repo := &fakeDrives{}
	forms := &fakeForms{schema: fields.Schema{ID: 3, Title: "Recruitment 2025", Fields: []fields.Definition{
		{ID: 1, Key: "roll_number", Type: fields.TypeText},
		{ID: 2, Key: "full_name", Type: fields.TypeText},
	}}}
	svc := NewDriveService(repo, forms, bus)

	dto := drive.CreateDTO{Title: "Core 2025", FormID: 3, PrimaryField: "roll_number", SIGField: "sig"}
	_, err := svc.Create(context.Background(), &dto)
	var verrs serrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "sig_field")
	require.Empty(t, repo.created)

	dto.SIGField = ""
	dto.IsActive = true
	created, err := svc.Create(context.Background(), &dto)
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID())
	require.Len(t, rec.Events(), 2)
	require.IsType(t, drive.CreatedEvent{}, rec.Events()[0])
	require.IsType(t, drive.ActivatedEvent{}, rec.Events()[1])
}

func TestDriveService_CreateRejectsInvalidDTO(t *testing.T) {
	bus, _ := newBus()
	forms := &fakeForms{}
	svc := NewDriveService(&fakeDrives{}, forms, bus)

	dto := drive.EmptyCreateDTO()
	_, err := svc.Create(context.Background(), &dto)
	var verrs serrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Equal(t, "title is required", verrs["title"].Message)
	require.Zero(t, forms.calls)
}

func TestDriveService_SetRegistrationLink(t *testing.T) {
	bus, _ := newBus()
	repo := &fakeDrives{}
	svc := NewDriveService(repo, nil, bus)

	_, err := svc.SetRegistrationLink(context.Background(), 4, "not a link")
	var verrs serrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Empty(t, repo.patches)

	d, err := svc.SetRegistrationLink(context.Background(), 4, "https://forms.gle/abc")
	require.NoError(t, err)
	require.Equal(t, "https://forms.gle/abc", d.RegistrationLink())
	require.Nil(t, repo.patches[4].Title)
}

func TestDriveService_SetActivePublishesByDirection(t *testing.T) {
	bus, rec := newBus()
	repo := &fakeDrives{}
	svc := NewDriveService(repo, nil, bus)

	d, err := svc.SetActive(context.Background(), 4, false)
	require.NoError(t, err)
	require.False(t, d.IsActive())
	require.False(t, *repo.patches[4].IsActive)

	_, err = svc.SetActive(context.Background(), 4, true)
	require.NoError(t, err)
	require.True(t, *repo.patches[4].IsActive)

	events := rec.Events()
	require.Len(t, events, 2)
	require.IsType(t, drive.UpdatedEvent{}, events[0])
	require.IsType(t, drive.ActivatedEvent{}, events[1])
}

func TestApplicationService_SetStatusFollowsWorkflow(t *testing.T) {
	bus, rec := newBus()
	app := application.New(4, "221CS330", "Chitra", application.WithID(1))
	repo := newFakeApplications(app)
	svc := NewApplicationService(repo, bus)

	_, err := svc.SetStatus(context.Background(), app, application.StatusSelected)
	require.ErrorIs(t, err, application.ErrInvalidTransition)
	require.Empty(t, repo.patches)

	updated, err := svc.SetStatus(context.Background(), app, application.StatusScheduled)
	require.NoError(t, err)
	require.Equal(t, application.StatusScheduled, updated.Status())

	events := rec.Events()
	require.Len(t, events, 1)
	changed := events[0].(application.StatusChangedEvent)
	require.Equal(t, application.StatusPending, changed.PreviousStatus)
}

func TestApplicationService_EvaluatePatchesRawScoreOnly(t *testing.T) {
	bus, rec := newBus()
	app := application.New(4, "221CS330", "Chitra", application.WithID(1), application.WithScores(score(5), score(3), nil))
	repo := newFakeApplications(app)
	svc := NewApplicationService(repo, bus)

	form := evaluation.NewForm(1, app.InterviewScore(), "")
	form.MaxScore = 20
	form.RawScore = 15
	form.Notes = "  solid fundamentals "
	require.Equal(t, "7.5", form.Normalized().String())
	require.Equal(t, "75", form.Percent().String())

	updated, err := svc.Evaluate(context.Background(), &form, "")
	require.NoError(t, err)
	require.InDelta(t, 23, updated.Total(), 1e-9)
	require.Equal(t, "solid fundamentals", updated.Notes())

	require.Len(t, repo.patches, 1)
	require.InDelta(t, 15, *repo.patches[0].InterviewScore, 0)
	require.Nil(t, repo.patches[0].OAScore)
	require.IsType(t, application.EvaluatedEvent{}, rec.Events()[0])

	form.RawScore = 25
	_, err = svc.Evaluate(context.Background(), &form, application.ScoreInterview)
	var verrs serrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "raw_score")
}

func TestPanelService_GenerateSlots(t *testing.T) {
	bus, rec := newBus()
	panels := &fakePanels{}
	svc := NewPanelService(panels, &fakeSlots{}, NewApplicationService(newFakeApplications(), bus), bus)

	_, err := svc.GenerateSlots(context.Background(), &panel.GenerateSlotsDTO{PanelID: 5, StartTime: slotStart})
	var verrs serrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Empty(t, panels.generated)

	n, err := svc.GenerateSlots(context.Background(), &panel.GenerateSlotsDTO{
		PanelID: 5, StartTime: slotStart, DurationMinutes: 20, ApplicationIDs: []int64{11, 12, 13},
	})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, panels.generated, 1)
	require.Equal(t, panel.SlotsGeneratedEvent{PanelID: 5, Count: 3}, rec.Events()[0])
}

func TestPanelService_SetSlotStatusMirrorsApplication(t *testing.T) {
	bus, _ := newBus()
	app := application.New(4, "221CS330", "Chitra", application.WithID(11), application.WithStatus(application.StatusScheduled))
	apps := newFakeApplications(app)
	slots := &fakeSlots{}
	svc := NewPanelService(&fakePanels{}, slots, NewApplicationService(apps, bus), bus)
	slot := panel.NewSlot(5, 11, slotStart, panel.WithSlotID(100))

	updated, err := svc.SetSlotStatus(context.Background(), slot, app, panel.SlotOngoing)
	require.NoError(t, err)
	require.Equal(t, panel.SlotOngoing, updated.Status())
	require.Len(t, apps.patches, 1)
	require.Equal(t, application.StatusInInterview, *apps.patches[0].Status)

	_, err = svc.SetSlotStatus(context.Background(), slot, application.Application{}, panel.SlotDelayed)
	require.NoError(t, err)
	require.Len(t, apps.patches, 1)
}

func TestPanelService_SetSlotStatusPartialFailure(t *testing.T) {
	bus, _ := newBus()
	apps := newFakeApplications()
	apps.err = errors.New("boom")
	svc := NewPanelService(&fakePanels{}, &fakeSlots{}, NewApplicationService(apps, bus), bus)
	slot := panel.NewSlot(5, 11, slotStart, panel.WithSlotID(100))

	updated, err := svc.SetSlotStatus(context.Background(), slot, application.Application{}, panel.SlotCompleted)
	require.ErrorIs(t, err, ErrStatusNotSynced)
	require.ErrorContains(t, err, "boom")
	require.Equal(t, panel.SlotCompleted, updated.Status())

	_, err = svc.SetSlotStatus(context.Background(), slot, application.Application{}, "PAUSED")
	require.ErrorIs(t, err, panel.ErrInvalidSlotStatus)
}

func scenarioApplications() []application.Application {
	return []application.Application{
		application.New(4, "221EC101", "Asha", application.WithID(1), application.WithSIG("Electronics"),
			application.WithScores(score(5), score(3), nil)),
		application.New(4, "221CS330", "Chitra", application.WithID(2), application.WithSIG("Software"),
			application.WithScores(score(8), score(8), score(9))),
	}
}

func TestLeaderboard_SortsByTotal(t *testing.T) {
	apps := scenarioApplications()
	res := listview.Apply(apps, LeaderboardSpec(), LeaderboardQuery("", "", 1, 20))

	var ids []int64
	var totals []float64
	for _, a := range res.Items {
		ids = append(ids, a.ID())
		totals = append(totals, a.Total())
	}
	require.Equal(t, []int64{2, 1}, ids)
	require.Equal(t, []float64{25, 8}, totals)
	require.Equal(t, 1, res.TotalPages)
}

func TestLeaderboard_FilterIsIdempotent(t *testing.T) {
	spec := LeaderboardSpec()
	q := LeaderboardQuery("ASHA", "Electronics", 1, 20)
	once := listview.Filter(scenarioApplications(), spec, q)
	twice := listview.Filter(once, spec, q)
	require.Len(t, once, 1)
	require.Equal(t, once, twice)

	require.Empty(t, listview.Filter(scenarioApplications(), spec, LeaderboardQuery("asha", "Software", 1, 20)))
	require.Equal(t, []string{"Electronics", "Software"}, SIGs(scenarioApplications()))
}

func TestFindCandidates(t *testing.T) {
	apps := append(scenarioApplications(),
		application.New(4, "221ME077", "Ashwin", application.WithID(3)),
	)
	got := FindCandidates(apps, "ash", 0)
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].ID())

	require.Len(t, FindCandidates(apps, "", 2), 2)
	require.Empty(t, FindCandidates(apps, "zzz", 0))
}

func TestExportLeaderboard(t *testing.T) {
	apps := scenarioApplications()
	var buf bytes.Buffer
	require.NoError(t, ExportLeaderboard(&buf, []application.Application{apps[1], apps[0]}, time.UTC))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Leaderboard")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Rank", rows[0][0])
	require.Equal(t, []string{"1", "221CS330", "Chitra", "Software", "8", "8", "9", "25", "PENDING"}, rows[1][:9])
	require.Equal(t, "", rows[2][6])
}
