package persistence

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/modules/recruitment/infrastructure/persistence/models"
)

func toDomainDrive(m models.Drive) drive.Drive {
	opts := []drive.Option{
		drive.WithID(m.ID),
		drive.WithDescription(m.Description),
		drive.WithRegistrationLink(m.RegistrationLink),
		drive.WithActive(m.IsActive),
		drive.WithPublic(m.IsPublic),
	}
	if m.Form != nil {
		opts = append(opts, drive.WithForm(*m.Form, m.PrimaryField, m.CandidateNameField, m.SIGField))
	}
	if len(m.Timeline) > 0 {
		events := make([]drive.TimelineEvent, 0, len(m.Timeline))
		for _, e := range m.Timeline {
			events = append(events, toDomainTimelineEvent(e))
		}
		opts = append(opts, drive.WithTimeline(events))
	}
	if len(m.Assignments) > 0 {
		assignments := make([]drive.Assignment, 0, len(m.Assignments))
		for _, a := range m.Assignments {
			assignments = append(assignments, toDomainAssignment(a))
		}
		opts = append(opts, drive.WithAssignments(assignments))
	}
	if m.CreatedAt != nil {
		opts = append(opts, drive.WithCreatedAt(*m.CreatedAt))
	}
	if m.UpdatedAt != nil {
		opts = append(opts, drive.WithUpdatedAt(*m.UpdatedAt))
	}
	return drive.New(m.Title, opts...)
}

func toDBDrive(d drive.Drive) models.Drive {
	m := models.Drive{
		ID:                 d.ID(),
		Title:              d.Title(),
		Description:        d.Description(),
		RegistrationLink:   d.RegistrationLink(),
		IsActive:           d.IsActive(),
		IsPublic:           d.IsPublic(),
		PrimaryField:       d.PrimaryField(),
		CandidateNameField: d.CandidateNameField(),
		SIGField:           d.SIGField(),
	}
	if d.HasForm() {
		formID := d.FormID()
		m.Form = &formID
	}
	return m
}

func toDBDrivePatch(p drive.Patch) models.DrivePatch {
	m := models.DrivePatch{
		Title:              p.Title,
		Description:        p.Description,
		RegistrationLink:   p.RegistrationLink,
		IsActive:           p.IsActive,
		IsPublic:           p.IsPublic,
		PrimaryField:       p.PrimaryField,
		CandidateNameField: p.CandidateNameField,
		SIGField:           p.SIGField,
	}
	if p.FormID != nil {
		form := models.FormRef(*p.FormID)
		m.Form = &form
	}
	return m
}

func toDomainTimelineEvent(m models.TimelineEvent) drive.TimelineEvent {
	return drive.NewTimelineEvent(m.Drive, m.Title, m.Date,
		drive.WithTimelineID(m.ID),
		drive.WithCompleted(m.IsCompleted),
		drive.WithTentative(m.IsTentative),
		drive.WithOriginalDate(m.OriginalDate),
		drive.WithOrder(m.Order),
	)
}

func toDBTimelineEvent(e drive.TimelineEvent) models.TimelineEvent {
	return models.TimelineEvent{
		ID:           e.ID(),
		Drive:        e.DriveID(),
		Title:        e.Title(),
		Date:         e.Date(),
		IsCompleted:  e.IsCompleted(),
		IsTentative:  e.IsTentative(),
		OriginalDate: e.OriginalDate(),
		Order:        e.Order(),
	}
}

func toDBTimelinePatch(p drive.TimelinePatch) models.TimelinePatch {
	return models.TimelinePatch{
		Title:       p.Title,
		Date:        p.Date,
		IsCompleted: p.IsCompleted,
		IsTentative: p.IsTentative,
		Order:       p.Order,
	}
}

func toDomainAssignment(m models.Assignment) drive.Assignment {
	return drive.NewAssignment(m.Drive, m.Title,
		drive.WithAssignmentID(m.ID),
		drive.WithSIG(m.SIG, m.SIGName),
		drive.WithAssignmentDescription(m.Description),
		drive.WithFile(m.File),
		drive.WithExternalLink(m.ExternalLink),
		drive.WithSubmissionType(drive.SubmissionType(strings.ToUpper(m.SubmissionType))),
	)
}

func toDBAssignment(a drive.Assignment) models.Assignment {
	return models.Assignment{
		ID:             a.ID(),
		Drive:          a.DriveID(),
		SIG:            a.SIGID(),
		Title:          a.Title(),
		Description:    a.Description(),
		ExternalLink:   a.ExternalLink(),
		SubmissionType: string(a.SubmissionType()),
	}
}

func toDomainApplication(m models.Application) application.Application {
	status := application.Status(strings.ToUpper(strings.TrimSpace(m.Status)))
	if status == "" {
		status = application.StatusPending
	}
	return application.New(m.Drive, m.Identifier, m.CandidateName,
		application.WithID(m.ID),
		application.WithSIG(m.SIGName),
		application.WithScores(fromNullDecimal(m.OAScore), fromNullDecimal(m.AssessmentScore), fromNullDecimal(m.InterviewScore)),
		application.WithInterviewTime(m.InterviewTime),
		application.WithStatus(status),
		application.WithSubmission(m.SolutionLink, m.AssessmentFile),
		application.WithNotes(m.Notes),
		application.WithResponses(m.Responses),
	)
}

func toDBApplicationPatch(p application.Patch) models.ApplicationPatch {
	out := models.ApplicationPatch{
		OAScore:         toDecimal(p.OAScore),
		AssessmentScore: toDecimal(p.AssessmentScore),
		InterviewScore:  toDecimal(p.InterviewScore),
		Notes:           p.Notes,
	}
	if p.Status != nil {
		s := string(*p.Status)
		out.Status = &s
	}
	return out
}

func toDomainPanel(m models.Panel) panel.Panel {
	slots := make([]panel.InterviewSlot, 0, len(m.Slots))
	for _, s := range m.Slots {
		if s.Panel == 0 {
			s.Panel = m.ID
		}
		slots = append(slots, toDomainSlot(s))
	}
	return panel.New(m.Drive, m.PanelNumber, m.Name,
		panel.WithID(m.ID),
		panel.WithMembers(m.Members),
		panel.WithSlots(slots),
	)
}

func toDBPanel(p panel.Panel) models.Panel {
	members := p.Members()
	if members == nil {
		members = []int64{}
	}
	return models.Panel{
		ID:          p.ID(),
		Drive:       p.DriveID(),
		PanelNumber: p.PanelNumber(),
		Name:        p.Name(),
		Members:     members,
	}
}

func toDBPanelPatch(p panel.Patch) models.PanelPatch {
	out := models.PanelPatch{
		Name:        p.Name,
		PanelNumber: p.PanelNumber,
	}
	if p.Members != nil {
		members := p.Members
		out.Members = &members
	}
	return out
}

func toDomainSlot(m models.InterviewSlot) panel.InterviewSlot {
	status := panel.SlotStatus(strings.ToUpper(strings.TrimSpace(m.Status)))
	if status == "" {
		status = panel.SlotScheduled
	}
	return panel.NewSlot(m.Panel, m.Application, m.StartTime,
		panel.WithSlotID(m.ID),
		panel.WithSlotStatus(status),
		panel.WithCandidate(m.CandidateName, m.ApplicationIdentifier),
	)
}

func toDBGenerateSlots(dto panel.GenerateSlotsDTO) models.GenerateSlots {
	return models.GenerateSlots{
		StartTime:      dto.StartTime.UTC().Truncate(time.Second),
		Duration:       dto.DurationMinutes,
		ApplicationIDs: dto.ApplicationIDs,
	}
}

func fromNullDecimal(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func toDecimal(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f).Round(2)
	return &d
}
