package drive

import "strings"

type SubmissionType string

const (
	SubmissionFile SubmissionType = "FILE"
	SubmissionLink SubmissionType = "LINK"
)

func (t SubmissionType) Valid() bool {
	return t == SubmissionFile || t == SubmissionLink
}

type AssignmentOption func(a *Assignment)

func WithAssignmentID(id int64) AssignmentOption {
	return func(a *Assignment) { a.id = id }
}

func WithSIG(id int64, name string) AssignmentOption {
	return func(a *Assignment) {
		a.sigID = id
		a.sigName = name
	}
}

func WithAssignmentDescription(description string) AssignmentOption {
	return func(a *Assignment) { a.description = strings.TrimSpace(description) }
}

// WithFile sets the URL of the uploaded brief.
func WithFile(url string) AssignmentOption {
	return func(a *Assignment) { a.file = url }
}

func WithExternalLink(link string) AssignmentOption {
	return func(a *Assignment) { a.externalLink = strings.TrimSpace(link) }
}

func WithSubmissionType(t SubmissionType) AssignmentOption {
	return func(a *Assignment) { a.submissionType = t }
}

// Assignment is a SIG's take-home task within a drive.
type Assignment struct {
	id             int64
	driveID        int64
	sigID          int64
	sigName        string
	title          string
	description    string
	file           string
	externalLink   string
	submissionType SubmissionType
}

func NewAssignment(driveID int64, title string, opts ...AssignmentOption) Assignment {
	a := Assignment{
		driveID:        driveID,
		title:          strings.TrimSpace(title),
		submissionType: SubmissionFile,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func (a Assignment) ID() int64                      { return a.id }
func (a Assignment) DriveID() int64                 { return a.driveID }
func (a Assignment) SIGID() int64                   { return a.sigID }
func (a Assignment) SIGName() string                { return a.sigName }
func (a Assignment) Title() string                  { return a.title }
func (a Assignment) Description() string            { return a.description }
func (a Assignment) File() string                   { return a.file }
func (a Assignment) ExternalLink() string           { return a.externalLink }
func (a Assignment) SubmissionType() SubmissionType { return a.submissionType }
