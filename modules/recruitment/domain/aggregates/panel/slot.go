package panel

import (
	"slices"
	"strings"
	"time"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

var ErrInvalidSlotStatus = serrors.NewError("SLOT_INVALID_STATUS", "unknown slot status", "Recruitment.Errors.InvalidSlotStatus")

type SlotStatus string

const (
	SlotScheduled SlotStatus = "SCHEDULED"
	SlotOngoing   SlotStatus = "ONGOING"
	SlotCompleted SlotStatus = "COMPLETED"
	SlotDelayed   SlotStatus = "DELAYED"
)

var SlotStatuses = []SlotStatus{SlotScheduled, SlotOngoing, SlotCompleted, SlotDelayed}

func ParseSlotStatus(s string) (SlotStatus, error) {
	st := SlotStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !slices.Contains(SlotStatuses, st) {
		return "", ErrInvalidSlotStatus.WithTemplateData(map[string]string{"status": s})
	}
	return st, nil
}

// ApplicationStatus is the application status a slot status is mirrored to.
// Only ONGOING and COMPLETED are mirrored.
func (s SlotStatus) ApplicationStatus() (application.Status, bool) {
	switch s {
	case SlotOngoing:
		return application.StatusInInterview, true
	case SlotCompleted:
		return application.StatusInterviewed, true
	default:
		return "", false
	}
}

type SlotOption func(s *InterviewSlot)

func WithSlotID(id int64) SlotOption {
	return func(s *InterviewSlot) { s.id = id }
}

func WithSlotStatus(status SlotStatus) SlotOption {
	return func(s *InterviewSlot) { s.status = status }
}

func WithCandidate(name, identifier string) SlotOption {
	return func(s *InterviewSlot) {
		s.candidateName = name
		s.applicationIdentifier = identifier
	}
}

// InterviewSlot books one candidate with one panel.
type InterviewSlot struct {
	id                    int64
	panelID               int64
	applicationID         int64
	startTime             time.Time
	status                SlotStatus
	candidateName         string
	applicationIdentifier string
}

func NewSlot(panelID, applicationID int64, start time.Time, opts ...SlotOption) InterviewSlot {
	s := InterviewSlot{
		panelID:       panelID,
		applicationID: applicationID,
		startTime:     start,
		status:        SlotScheduled,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s InterviewSlot) ID() int64                     { return s.id }
func (s InterviewSlot) PanelID() int64                { return s.panelID }
func (s InterviewSlot) ApplicationID() int64          { return s.applicationID }
func (s InterviewSlot) StartTime() time.Time          { return s.startTime }
func (s InterviewSlot) Status() SlotStatus            { return s.status }
func (s InterviewSlot) CandidateName() string         { return s.candidateName }
func (s InterviewSlot) ApplicationIdentifier() string { return s.applicationIdentifier }

func (s InterviewSlot) SetStatus(status SlotStatus) InterviewSlot {
	s.status = status
	return s
}

func SortSlots(slots []InterviewSlot) []InterviewSlot {
	out := slices.Clone(slots)
	slices.SortStableFunc(out, func(a, b InterviewSlot) int {
		return a.startTime.Compare(b.startTime)
	})
	return out
}
