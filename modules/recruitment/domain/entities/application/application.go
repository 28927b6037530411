package application

import (
	"strings"
	"time"

	"github.com/robocore-nitk/club-admin/pkg/fields"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

var (
	ErrNotFound          = serrors.NewError("APPLICATION_NOT_FOUND", "application not found", "Recruitment.Errors.ApplicationNotFound")
	ErrInvalidStatus     = serrors.NewError("APPLICATION_INVALID_STATUS", "unknown application status", "Recruitment.Errors.InvalidStatus")
	ErrInvalidTransition = serrors.NewError("APPLICATION_INVALID_TRANSITION", "status transition not allowed", "Recruitment.Errors.InvalidTransition")
)

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusScheduled   Status = "SCHEDULED"
	StatusInInterview Status = "IN_INTERVIEW"
	StatusInterviewed Status = "INTERVIEWED"
	StatusSelected    Status = "SELECTED"
	StatusRejected    Status = "REJECTED"
)

var Statuses = []Status{
	StatusPending,
	StatusScheduled,
	StatusInInterview,
	StatusInterviewed,
	StatusSelected,
	StatusRejected,
}

var transitions = map[Status][]Status{
	StatusPending:     {StatusScheduled, StatusRejected},
	StatusScheduled:   {StatusPending, StatusInInterview, StatusRejected},
	StatusInInterview: {StatusScheduled, StatusInterviewed},
	StatusInterviewed: {StatusSelected, StatusRejected},
	StatusSelected:    {StatusInterviewed, StatusRejected},
	StatusRejected:    {StatusPending, StatusSelected},
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", ErrInvalidStatus.WithTemplateData(map[string]string{"status": s})
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses an admin may move to from s.
func (s Status) NextStatuses() []Status {
	return append([]Status(nil), transitions[s]...)
}

type Option func(a *Application)

func WithID(id int64) Option {
	return func(a *Application) { a.id = id }
}

func WithSIG(name string) Option {
	return func(a *Application) { a.sigName = strings.TrimSpace(name) }
}

func WithScores(oa, assessment, interview *float64) Option {
	return func(a *Application) {
		a.oaScore = oa
		a.assessmentScore = assessment
		a.interviewScore = interview
	}
}

func WithInterviewTime(t *time.Time) Option {
	return func(a *Application) { a.interviewTime = t }
}

func WithStatus(s Status) Option {
	return func(a *Application) { a.status = s }
}

func WithSubmission(solutionLink, assessmentFile string) Option {
	return func(a *Application) {
		a.solutionLink = solutionLink
		a.assessmentFile = assessmentFile
	}
}

func WithNotes(notes string) Option {
	return func(a *Application) { a.notes = notes }
}

// WithResponses attaches the raw form answers keyed by field key.
func WithResponses(responses map[string]any) Option {
	return func(a *Application) { a.responses = responses }
}

type Application struct {
	id              int64
	driveID         int64
	identifier      string
	candidateName   string
	sigName         string
	oaScore         *float64
	assessmentScore *float64
	interviewScore  *float64
	interviewTime   *time.Time
	status          Status
	solutionLink    string
	assessmentFile  string
	notes           string
	responses       map[string]any
}

func New(driveID int64, identifier, candidateName string, opts ...Option) Application {
	a := Application{
		driveID:       driveID,
		identifier:    strings.TrimSpace(identifier),
		candidateName: strings.TrimSpace(candidateName),
		status:        StatusPending,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func (a Application) ID() int64                 { return a.id }
func (a Application) DriveID() int64            { return a.driveID }
func (a Application) Identifier() string        { return a.identifier }
func (a Application) CandidateName() string     { return a.candidateName }
func (a Application) SIGName() string           { return a.sigName }
func (a Application) OAScore() *float64         { return a.oaScore }
func (a Application) AssessmentScore() *float64 { return a.assessmentScore }
func (a Application) InterviewScore() *float64  { return a.interviewScore }
func (a Application) InterviewTime() *time.Time { return a.interviewTime }
func (a Application) Status() Status            { return a.status }
func (a Application) SolutionLink() string      { return a.solutionLink }
func (a Application) AssessmentFile() string    { return a.assessmentFile }
func (a Application) Notes() string             { return a.notes }
func (a Application) Responses() map[string]any { return a.responses }

// Total is the sum of the three scores, missing ones counting as zero. It is
// derived on every call.
func (a Application) Total() float64 {
	return valueOf(a.oaScore) + valueOf(a.assessmentScore) + valueOf(a.interviewScore)
}

// Score returns the named score field: oa_score, assessment_score,
// interview_score or total.
func (a Application) Score(field ScoreField) float64 {
	switch field {
	case ScoreOA:
		return valueOf(a.oaScore)
	case ScoreAssessment:
		return valueOf(a.assessmentScore)
	case ScoreInterview:
		return valueOf(a.interviewScore)
	default:
		return a.Total()
	}
}

func (a Application) ScorePtr(field ScoreField) *float64 {
	switch field {
	case ScoreOA:
		return a.oaScore
	case ScoreAssessment:
		return a.assessmentScore
	case ScoreInterview:
		return a.interviewScore
	default:
		return nil
	}
}

func (a Application) SetStatus(s Status) Application {
	a.status = s
	return a
}

func (a Application) SetScore(field ScoreField, v float64) Application {
	switch field {
	case ScoreOA:
		a.oaScore = &v
	case ScoreAssessment:
		a.assessmentScore = &v
	case ScoreInterview:
		a.interviewScore = &v
	}
	return a
}

func (a Application) SetNotes(notes string) Application {
	a.notes = notes
	return a
}

// Decode types the raw form answers against the drive's form schema.
func (a Application) Decode(schema fields.Schema) (fields.Record, map[string]any, error) {
	return schema.Decode(a.responses)
}

type ScoreField string

const (
	ScoreTotal      ScoreField = "total"
	ScoreOA         ScoreField = "oa_score"
	ScoreAssessment ScoreField = "assessment_score"
	ScoreInterview  ScoreField = "interview_score"
)

var ScoreFields = []ScoreField{ScoreTotal, ScoreOA, ScoreAssessment, ScoreInterview}

func ParseScoreField(s string) (ScoreField, bool) {
	for _, f := range ScoreFields {
		if string(f) == strings.TrimSpace(s) {
			return f, true
		}
	}
	return "", false
}

func valueOf(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
