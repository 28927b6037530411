package mappers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/value_objects/evaluation"
	"github.com/robocore-nitk/club-admin/modules/recruitment/presentation/viewmodels"
)

const (
	NotAvailable = "N/A"

	dateLayout     = "02 Jan 2006"
	dateTimeLayout = "02 Jan 2006, 03:04 PM"
	timeLayout     = "03:04 PM"
)

// FormatDate renders t in loc, or N/A for the zero time.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.In(loc).Format(dateLayout)
}

func FormatDateTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.In(loc).Format(dateTimeLayout)
}

func FormatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timeLayout)
}

func formatScore(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func DriveToViewModel(d drive.Drive, loc *time.Location) *viewmodels.Drive {
	return &viewmodels.Drive{
		ID:               d.ID(),
		Title:            d.Title(),
		Description:      d.Description(),
		RegistrationLink: d.RegistrationLink(),
		IsActive:         d.IsActive(),
		IsPublic:         d.IsPublic(),
		FormID:           d.FormID(),
		CreatedAt:        FormatDate(d.CreatedAt(), loc),
	}
}

func TimelineEventToViewModel(e drive.TimelineEvent, loc *time.Location) *viewmodels.TimelineEvent {
	vm := &viewmodels.TimelineEvent{
		ID:          e.ID(),
		Title:       e.Title(),
		Date:        FormatDate(e.Date(), loc),
		IsCompleted: e.IsCompleted(),
		IsTentative: e.IsTentative(),
		Rescheduled: e.IsRescheduled(),
	}
	if e.IsRescheduled() {
		vm.OriginalDate = FormatDate(*e.OriginalDate(), loc)
	}
	return vm
}

func AssignmentToViewModel(a drive.Assignment) *viewmodels.Assignment {
	link := a.ExternalLink()
	if a.SubmissionType() == drive.SubmissionFile && a.File() != "" {
		link = a.File()
	}
	return &viewmodels.Assignment{
		ID:             a.ID(),
		SIG:            a.SIGName(),
		Title:          a.Title(),
		Description:    a.Description(),
		SubmissionType: string(a.SubmissionType()),
		Link:           link,
	}
}

func ApplicationToViewModel(rank int, a application.Application, loc *time.Location) *viewmodels.Application {
	next := a.Status().NextStatuses()
	statuses := make([]string, 0, len(next))
	for _, s := range next {
		statuses = append(statuses, string(s))
	}
	submission := a.SolutionLink()
	if submission == "" {
		submission = a.AssessmentFile()
	}
	return &viewmodels.Application{
		Rank:            rank,
		ID:              a.ID(),
		Identifier:      a.Identifier(),
		CandidateName:   a.CandidateName(),
		SIG:             a.SIGName(),
		OAScore:         formatScore(a.OAScore()),
		AssessmentScore: formatScore(a.AssessmentScore()),
		InterviewScore:  formatScore(a.InterviewScore()),
		Total:           strconv.FormatFloat(a.Total(), 'f', -1, 64),
		Status:          string(a.Status()),
		NextStatuses:    statuses,
		InterviewTime:   FormatDateTime(a.InterviewTime(), loc),
		Submission:      submission,
	}
}

// ApplicationsToViewModels numbers the page's rows from the page offset.
func ApplicationsToViewModels(apps []application.Application, offset int, loc *time.Location) []*viewmodels.Application {
	out := make([]*viewmodels.Application, 0, len(apps))
	for i, a := range apps {
		out = append(out, ApplicationToViewModel(offset+i+1, a, loc))
	}
	return out
}

func SlotToViewModel(s panel.InterviewSlot, loc *time.Location) *viewmodels.Slot {
	candidate := s.CandidateName()
	if candidate == "" {
		candidate = s.ApplicationIdentifier()
	}
	if candidate == "" {
		candidate = fmt.Sprintf("#%d", s.ApplicationID())
	}
	return &viewmodels.Slot{
		ID:            s.ID(),
		Time:          FormatTime(s.StartTime(), loc),
		Status:        string(s.Status()),
		ApplicationID: s.ApplicationID(),
		Candidate:     candidate,
	}
}

func PanelToViewModel(p panel.Panel, loc *time.Location) *viewmodels.Panel {
	slots := p.Slots()
	vm := &viewmodels.Panel{
		ID:      p.ID(),
		Label:   p.Label(),
		Members: p.Members(),
		Slots:   make([]*viewmodels.Slot, 0, len(slots)),
	}
	for _, s := range slots {
		vm.Slots = append(vm.Slots, SlotToViewModel(s, loc))
	}
	if ongoing := p.Ongoing(); len(ongoing) > 1 {
		vm.Warning = fmt.Sprintf("%d interviews marked ongoing", len(ongoing))
	}
	return vm
}

func EvaluationToViewModel(f evaluation.Form) *viewmodels.Evaluation {
	return &viewmodels.Evaluation{
		ApplicationID: f.ApplicationID,
		RawScore:      strconv.FormatFloat(f.RawScore, 'f', -1, 64),
		MaxScore:      strconv.FormatFloat(f.MaxScore, 'f', -1, 64),
		Normalized:    f.Normalized().StringFixed(2),
		Percent:       f.Percent().StringFixed(2) + "%",
	}
}
