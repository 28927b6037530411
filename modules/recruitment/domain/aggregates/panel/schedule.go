package panel

import (
	"context"
	"slices"
	"time"

	"github.com/robocore-nitk/club-admin/pkg/constants"
)

// GenerateSlotsDTO is everything the backend needs to lay out a panel's
// interviews: a start, a per-slot length and the candidates in order.
type GenerateSlotsDTO struct {
	PanelID         int64     `json:"-" validate:"required,gt=0"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	DurationMinutes int       `json:"duration" validate:"required,gt=0,lte=240"`
	ApplicationIDs  []int64   `json:"application_ids" validate:"required,min=1,unique,dive,gt=0"`
}

func (d *GenerateSlotsDTO) Ok(ctx context.Context) (map[string]string, bool) {
	return constants.ValidateStruct(d)
}

func (d GenerateSlotsDTO) Duration() time.Duration {
	return time.Duration(d.DurationMinutes) * time.Minute
}

// PreviewSchedule computes the start times the backend is expected to assign.
// It is only shown as a dry run; the slots themselves come from the backend.
func PreviewSchedule(start time.Time, duration time.Duration, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * duration)
	}
	return out
}

// Unscheduled filters candidate ids that already hold a slot in any panel.
func Unscheduled(panels []Panel, applicationIDs []int64) []int64 {
	booked := map[int64]bool{}
	for _, p := range panels {
		for _, s := range p.slots {
			booked[s.applicationID] = true
		}
	}
	out := make([]int64, 0, len(applicationIDs))
	for _, id := range applicationIDs {
		if !booked[id] && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

type CreateDTO struct {
	DriveID     int64   `json:"drive" validate:"required,gt=0"`
	PanelNumber int     `json:"panel_number" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"max=100"`
	Members     []int64 `json:"members" validate:"unique,dive,gt=0"`
}

func (d *CreateDTO) Ok(ctx context.Context) (map[string]string, bool) {
	return constants.ValidateStruct(d)
}

func (d *CreateDTO) ToEntity() Panel {
	return New(d.DriveID, d.PanelNumber, d.Name, WithMembers(d.Members))
}

type Patch struct {
	Name        *string
	PanelNumber *int
	Members     []int64
}
