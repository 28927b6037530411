package panel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
)

func at(hh, mm int) time.Time {
	return time.Date(2025, 8, 12, hh, mm, 0, 0, time.UTC)
}

func TestPreviewSchedule_Sequential(t *testing.T) {
	got := PreviewSchedule(at(9, 0), 20*time.Minute, 3)
	require.Equal(t, []time.Time{at(9, 0), at(9, 20), at(9, 40)}, got)
	require.Nil(t, PreviewSchedule(at(9, 0), 20*time.Minute, 0))
}

func TestPanel_SlotsSortedByStart(t *testing.T) {
	p := New(1, 2, "Software", WithSlots([]InterviewSlot{
		NewSlot(2, 30, at(9, 40), WithSlotID(3)),
		NewSlot(2, 10, at(9, 0), WithSlotID(1)),
		NewSlot(2, 20, at(9, 20), WithSlotID(2)),
	}))

	var ids []int64
	for _, s := range p.Slots() {
		ids = append(ids, s.ID())
	}
	require.Equal(t, []int64{1, 2, 3}, ids)
	require.Equal(t, "Panel 2 - Software", p.Label())
}

func TestPanel_OngoingAndReplace(t *testing.T) {
	p := New(1, 1, "", WithSlots([]InterviewSlot{
		NewSlot(1, 10, at(9, 0), WithSlotID(1), WithSlotStatus(SlotOngoing)),
		NewSlot(1, 20, at(9, 20), WithSlotID(2)),
	}))
	require.Len(t, p.Ongoing(), 1)

	p2 := p.ReplaceSlot(p.Slots()[1].SetStatus(SlotOngoing))
	require.Len(t, p2.Ongoing(), 2)
	require.Len(t, p.Ongoing(), 1)
	require.Equal(t, "Panel 1", p.Label())
}

func TestSlotStatus_ApplicationMirror(t *testing.T) {
	st, ok := SlotOngoing.ApplicationStatus()
	require.True(t, ok)
	require.Equal(t, application.StatusInInterview, st)

	st, ok = SlotCompleted.ApplicationStatus()
	require.True(t, ok)
	require.Equal(t, application.StatusInterviewed, st)

	_, ok = SlotDelayed.ApplicationStatus()
	require.False(t, ok)

	_, err := ParseSlotStatus("paused")
	require.ErrorIs(t, err, ErrInvalidSlotStatus)
	got, err := ParseSlotStatus(" ongoing ")
	require.NoError(t, err)
	require.Equal(t, SlotOngoing, got)
}

func TestGenerateSlotsDTO_Ok(t *testing.T) {
	dto := GenerateSlotsDTO{PanelID: 5, StartTime: at(9, 0), DurationMinutes: 20, ApplicationIDs: []int64{1, 2, 3}}
	_, ok := dto.Ok(context.Background())
	require.True(t, ok)

	dto = GenerateSlotsDTO{PanelID: 5, ApplicationIDs: []int64{1, 1}}
	errs, ok := dto.Ok(context.Background())
	require.False(t, ok)
	require.Contains(t, errs, "start_time")
	require.Contains(t, errs, "duration")
	require.Contains(t, errs, "application_ids")
}

func TestUnscheduledAndNextNumber(t *testing.T) {
	panels := []Panel{
		New(1, 1, "", WithSlots([]InterviewSlot{NewSlot(1, 10, at(9, 0))})),
		New(1, 4, ""),
	}
	require.Equal(t, []int64{20, 30}, Unscheduled(panels, []int64{10, 20, 30, 20}))
	require.Equal(t, 5, NextPanelNumber(panels))
	require.Equal(t, 1, NextPanelNumber(nil))
}

func TestPanel_RemoveSlotKeepsOriginal(t *testing.T) {
	p := New(1, 1, "", WithSlots([]InterviewSlot{
		NewSlot(1, 10, at(9, 0), WithSlotID(1)),
		NewSlot(1, 20, at(9, 20), WithSlotID(2)),
	}))

	trimmed := p.RemoveSlot(1)

	require.Equal(t, 1, trimmed.SlotCount())
	require.Equal(t, int64(2), trimmed.Slots()[0].ID())
	require.Equal(t, 2, p.SlotCount())
}
