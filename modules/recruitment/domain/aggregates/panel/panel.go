package panel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

var (
	ErrNotFound     = serrors.NewError("PANEL_NOT_FOUND", "panel not found", "Recruitment.Errors.PanelNotFound")
	ErrSlotNotFound = serrors.NewError("SLOT_NOT_FOUND", "interview slot not found", "Recruitment.Errors.SlotNotFound")
)

type Option func(p *Panel)

func WithID(id int64) Option {
	return func(p *Panel) { p.id = id }
}

func WithMembers(members []int64) Option {
	return func(p *Panel) { p.members = slices.Clone(members) }
}

func WithSlots(slots []InterviewSlot) Option {
	return func(p *Panel) { p.slots = slices.Clone(slots) }
}

// Panel is an interview committee within a drive.
type Panel struct {
	id          int64
	driveID     int64
	panelNumber int
	name        string
	members     []int64
	slots       []InterviewSlot
}

func New(driveID int64, panelNumber int, name string, opts ...Option) Panel {
	p := Panel{
		driveID:     driveID,
		panelNumber: panelNumber,
		name:        strings.TrimSpace(name),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p Panel) ID() int64          { return p.id }
func (p Panel) DriveID() int64     { return p.driveID }
func (p Panel) PanelNumber() int   { return p.panelNumber }
func (p Panel) Name() string       { return p.name }
func (p Panel) Members() []int64   { return slices.Clone(p.members) }
func (p Panel) SlotCount() int     { return len(p.slots) }
func (p Panel) HasMember(id int64) bool {
	return slices.Contains(p.members, id)
}

// Slots returns the panel's slots ordered by start time.
func (p Panel) Slots() []InterviewSlot {
	return SortSlots(p.slots)
}

func (p Panel) SetMembers(members []int64) Panel {
	p.members = slices.Clone(members)
	return p
}

func (p Panel) SetName(name string) Panel {
	p.name = strings.TrimSpace(name)
	return p
}

func (p Panel) ReplaceSlot(slot InterviewSlot) Panel {
	out := slices.Clone(p.slots)
	for i := range out {
		if out[i].ID() == slot.ID() {
			out[i] = slot
		}
	}
	p.slots = out
	return p
}

func (p Panel) RemoveSlot(slotID int64) Panel {
	p.slots = slices.DeleteFunc(slices.Clone(p.slots), func(s InterviewSlot) bool {
		return s.ID() == slotID
	})
	return p
}

// Ongoing lists the panel's ONGOING slots. More than one is a scheduling
// slip that admins are warned about.
func (p Panel) Ongoing() []InterviewSlot {
	var out []InterviewSlot
	for _, s := range p.Slots() {
		if s.Status() == SlotOngoing {
			out = append(out, s)
		}
	}
	return out
}

// Display name, e.g. "Panel 2 - Software".
func (p Panel) Label() string {
	if p.name == "" {
		return fmt.Sprintf("Panel %d", p.panelNumber)
	}
	return fmt.Sprintf("Panel %d - %s", p.panelNumber, p.name)
}

func FindSlot(panels []Panel, slotID int64) (Panel, InterviewSlot, bool) {
	for _, p := range panels {
		for _, s := range p.slots {
			if s.ID() == slotID {
				return p, s, true
			}
		}
	}
	return Panel{}, InterviewSlot{}, false
}

// NextPanelNumber suggests a number for a new panel.
func NextPanelNumber(panels []Panel) int {
	n := 0
	for _, p := range panels {
		n = max(n, p.panelNumber)
	}
	return n + 1
}
