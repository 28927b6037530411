package drive

import (
	"context"
	"time"

	"github.com/robocore-nitk/club-admin/pkg/fields"
)

// Patch carries the drive fields to change; nil fields are left alone.
type Patch struct {
	Title              *string
	Description        *string
	RegistrationLink   *string
	IsActive           *bool
	IsPublic           *bool
	FormID             *int64
	PrimaryField       *string
	CandidateNameField *string
	SIGField           *string
}

type TimelinePatch struct {
	Title       *string
	Date        *time.Time
	IsCompleted *bool
	IsTentative *bool
	Order       *int
}

// Upload is a file attached to an assignment or a submission.
type Upload struct {
	Name    string
	Content []byte
}

type Repository interface {
	List(ctx context.Context) ([]Drive, error)
	GetActivePublic(ctx context.Context) (Drive, error)
	Create(ctx context.Context, d Drive) (Drive, error)
	Update(ctx context.Context, id int64, patch Patch) (Drive, error)
	Delete(ctx context.Context, id int64) error
	SyncCandidates(ctx context.Context, id int64) (SyncResult, error)
	SubmitAssessment(ctx context.Context, dto SubmissionDTO) error
}

type TimelineRepository interface {
	List(ctx context.Context, driveID int64) ([]TimelineEvent, error)
	Create(ctx context.Context, e TimelineEvent) (TimelineEvent, error)
	Update(ctx context.Context, id int64, patch TimelinePatch) (TimelineEvent, error)
	Delete(ctx context.Context, id int64) error
}

type AssignmentRepository interface {
	List(ctx context.Context, driveID int64) ([]Assignment, error)
	// Create sends multipart when file is non-nil, JSON otherwise.
	Create(ctx context.Context, a Assignment, file *Upload) (Assignment, error)
	Delete(ctx context.Context, id int64) error
}

// FormSchemaRepository fetches the club form a drive imports candidates from.
type FormSchemaRepository interface {
	GetSchema(ctx context.Context, formID int64) (fields.Schema, error)
}
