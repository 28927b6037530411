package drive

import (
	"slices"
	"strings"
	"time"
)

type TimelineOption func(e *TimelineEvent)

func WithTimelineID(id int64) TimelineOption {
	return func(e *TimelineEvent) { e.id = id }
}

func WithCompleted(completed bool) TimelineOption {
	return func(e *TimelineEvent) { e.isCompleted = completed }
}

func WithTentative(tentative bool) TimelineOption {
	return func(e *TimelineEvent) { e.isTentative = tentative }
}

// WithOriginalDate records the date before the first reschedule.
func WithOriginalDate(t *time.Time) TimelineOption {
	return func(e *TimelineEvent) { e.originalDate = t }
}

func WithOrder(order int) TimelineOption {
	return func(e *TimelineEvent) { e.order = order }
}

type TimelineEvent struct {
	id           int64
	driveID      int64
	title        string
	date         time.Time
	isCompleted  bool
	isTentative  bool
	originalDate *time.Time
	order        int
}

func NewTimelineEvent(driveID int64, title string, date time.Time, opts ...TimelineOption) TimelineEvent {
	e := TimelineEvent{
		driveID: driveID,
		title:   strings.TrimSpace(title),
		date:    date,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e TimelineEvent) ID() int64                { return e.id }
func (e TimelineEvent) DriveID() int64           { return e.driveID }
func (e TimelineEvent) Title() string            { return e.title }
func (e TimelineEvent) Date() time.Time          { return e.date }
func (e TimelineEvent) IsCompleted() bool        { return e.isCompleted }
func (e TimelineEvent) IsTentative() bool        { return e.isTentative }
func (e TimelineEvent) OriginalDate() *time.Time { return e.originalDate }
func (e TimelineEvent) Order() int               { return e.order }

func (e TimelineEvent) IsRescheduled() bool {
	return e.originalDate != nil && !e.originalDate.Equal(e.date)
}

func (e TimelineEvent) ToggleCompleted() TimelineEvent {
	e.isCompleted = !e.isCompleted
	return e
}

// Reschedule moves the event. The first move remembers the original date;
// the backend does the same, so the local copy matches what a reload returns.
func (e TimelineEvent) Reschedule(date time.Time) TimelineEvent {
	if e.originalDate == nil && !e.date.IsZero() && !e.date.Equal(date) {
		original := e.date
		e.originalDate = &original
	}
	e.date = date
	return e
}

// SortTimeline returns a copy ordered by date, then by explicit order.
func SortTimeline(events []TimelineEvent) []TimelineEvent {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b TimelineEvent) int {
		if c := a.date.Compare(b.date); c != 0 {
			return c
		}
		return a.order - b.order
	})
	return out
}
