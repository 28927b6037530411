package drive

import (
	"strings"
	"time"

	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

var (
	ErrNotFound      = serrors.NewError("DRIVE_NOT_FOUND", "drive not found", "Recruitment.Errors.DriveNotFound")
	ErrNoActiveDrive = serrors.NewError("DRIVE_NO_ACTIVE", "no active recruitment drive", "Recruitment.Errors.NoActiveDrive")
)

type Option func(d *Drive)

func WithID(id int64) Option {
	return func(d *Drive) { d.id = id }
}

func WithDescription(description string) Option {
	return func(d *Drive) { d.description = strings.TrimSpace(description) }
}

func WithRegistrationLink(link string) Option {
	return func(d *Drive) { d.registrationLink = strings.TrimSpace(link) }
}

func WithActive(active bool) Option {
	return func(d *Drive) { d.isActive = active }
}

func WithPublic(public bool) Option {
	return func(d *Drive) { d.isPublic = public }
}

// WithForm links the drive to the club form applicants fill in, and names the
// form fields that carry the candidate key, name and SIG.
func WithForm(formID int64, primaryField, candidateNameField, sigField string) Option {
	return func(d *Drive) {
		d.formID = formID
		d.primaryField = strings.TrimSpace(primaryField)
		d.candidateNameField = strings.TrimSpace(candidateNameField)
		d.sigField = strings.TrimSpace(sigField)
	}
}

func WithTimeline(events []TimelineEvent) Option {
	return func(d *Drive) { d.timeline = events }
}

func WithAssignments(assignments []Assignment) Option {
	return func(d *Drive) { d.assignments = assignments }
}

func WithCreatedAt(t time.Time) Option {
	return func(d *Drive) { d.createdAt = t }
}

func WithUpdatedAt(t time.Time) Option {
	return func(d *Drive) { d.updatedAt = t }
}

// Drive is one recruitment cycle.
type Drive struct {
	id                 int64
	title              string
	description        string
	registrationLink   string
	isActive           bool
	isPublic           bool
	formID             int64
	primaryField       string
	candidateNameField string
	sigField           string
	timeline           []TimelineEvent
	assignments        []Assignment
	createdAt          time.Time
	updatedAt          time.Time
}

func New(title string, opts ...Option) Drive {
	d := Drive{
		title:    strings.TrimSpace(title),
		isPublic: true,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func (d Drive) ID() int64                  { return d.id }
func (d Drive) Title() string              { return d.title }
func (d Drive) Description() string        { return d.description }
func (d Drive) RegistrationLink() string   { return d.registrationLink }
func (d Drive) IsActive() bool             { return d.isActive }
func (d Drive) IsPublic() bool             { return d.isPublic }
func (d Drive) FormID() int64              { return d.formID }
func (d Drive) PrimaryField() string       { return d.primaryField }
func (d Drive) CandidateNameField() string { return d.candidateNameField }
func (d Drive) SIGField() string           { return d.sigField }
func (d Drive) CreatedAt() time.Time       { return d.createdAt }
func (d Drive) UpdatedAt() time.Time       { return d.updatedAt }
func (d Drive) HasForm() bool              { return d.formID != 0 }

// Timeline returns the drive's events ordered by date.
func (d Drive) Timeline() []TimelineEvent {
	return SortTimeline(d.timeline)
}

func (d Drive) Assignments() []Assignment {
	return append([]Assignment(nil), d.assignments...)
}

func (d Drive) SetRegistrationLink(link string) Drive {
	d.registrationLink = strings.TrimSpace(link)
	return d
}

func (d Drive) SetActive(active bool) Drive {
	d.isActive = active
	return d
}

// Select picks the drive an admin lands on: the active one, else the first.
func Select(drives []Drive) (Drive, bool) {
	for _, d := range drives {
		if d.isActive {
			return d, true
		}
	}
	if len(drives) > 0 {
		return drives[0], true
	}
	return Drive{}, false
}

// SyncResult reports how many applications a candidate sync touched.
type SyncResult struct {
	Created int
	Updated int
	Skipped int
}

func (r SyncResult) Total() int {
	return r.Created + r.Updated
}
