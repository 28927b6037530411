package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/value_objects/evaluation"
)

func ist(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

func TestFormatDate_NA(t *testing.T) {
	require.Equal(t, NotAvailable, FormatDate(time.Time{}, time.UTC))
	require.Equal(t, NotAvailable, FormatDateTime(nil, time.UTC))
}

func TestTimelineEventToViewModel_InIST(t *testing.T) {
	loc := ist(t)
	original := time.Date(2025, 8, 10, 20, 0, 0, 0, time.UTC)
	e := drive.NewTimelineEvent(1, "OA", time.Date(2025, 8, 12, 20, 0, 0, 0, time.UTC), drive.WithOriginalDate(&original))

	vm := TimelineEventToViewModel(e, loc)
	require.Equal(t, "13 Aug 2025", vm.Date)
	require.Equal(t, "11 Aug 2025", vm.OriginalDate)
	require.True(t, vm.Rescheduled)

	vm = TimelineEventToViewModel(drive.NewTimelineEvent(1, "OA", time.Date(2025, 8, 12, 5, 0, 0, 0, time.UTC)), loc)
	require.Empty(t, vm.OriginalDate)
}

func TestApplicationsToViewModels_RanksFromOffset(t *testing.T) {
	five := 5.0
	apps := []application.Application{
		application.New(1, "221EC101", "Asha", application.WithID(1), application.WithScores(&five, nil, nil)),
	}
	vms := ApplicationsToViewModels(apps, 20, time.UTC)
	require.Len(t, vms, 1)
	require.Equal(t, 21, vms[0].Rank)
	require.Equal(t, "5", vms[0].OAScore)
	require.Equal(t, "-", vms[0].InterviewScore)
	require.Equal(t, "5", vms[0].Total)
	require.Equal(t, NotAvailable, vms[0].InterviewTime)
	require.Equal(t, []string{"SCHEDULED", "REJECTED"}, vms[0].NextStatuses)
}

func TestPanelToViewModel_WarnsOnTwoOngoing(t *testing.T) {
	loc := ist(t)
	start := time.Date(2025, 8, 20, 3, 30, 0, 0, time.UTC)
	p := panel.New(1, 2, "Software", panel.WithSlots([]panel.InterviewSlot{
		panel.NewSlot(5, 12, start.Add(20*time.Minute), panel.WithSlotStatus(panel.SlotOngoing)),
		panel.NewSlot(5, 11, start, panel.WithSlotStatus(panel.SlotOngoing), panel.WithCandidate("Asha", "221EC101")),
	}))
	vm := PanelToViewModel(p, loc)
	require.Equal(t, "Panel 2 - Software", vm.Label)
	require.Equal(t, "09:00 AM", vm.Slots[0].Time)
	require.Equal(t, "Asha", vm.Slots[0].Candidate)
	require.Equal(t, "#12", vm.Slots[1].Candidate)
	require.NotEmpty(t, vm.Warning)
}

func TestEvaluationToViewModel(t *testing.T) {
	f := evaluation.NewForm(1, nil, "")
	f.RawScore = 7
	vm := EvaluationToViewModel(f)
	require.Equal(t, "7.00", vm.Normalized)
	require.Equal(t, "70.00%", vm.Percent)
}
