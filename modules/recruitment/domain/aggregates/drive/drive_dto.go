package drive

import (
	"context"
	"strings"
	"time"

	"github.com/robocore-nitk/club-admin/pkg/constants"
)

type CreateDTO struct {
	Title              string `json:"title" validate:"required,max=200"`
	Description        string `json:"description"`
	RegistrationLink   string `json:"registration_link" validate:"omitempty,url"`
	IsActive           bool   `json:"is_active"`
	IsPublic           bool   `json:"is_public"`
	FormID             int64  `json:"form" validate:"gte=0"`
	PrimaryField       string `json:"primary_field" validate:"required_with=FormID"`
	CandidateNameField string `json:"candidate_name_field"`
	SIGField           string `json:"sig_field"`
}

// EmptyCreateDTO is the starting point of the create form.
func EmptyCreateDTO() CreateDTO {
	return CreateDTO{IsPublic: true}
}

func (d *CreateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.RegistrationLink = strings.TrimSpace(d.RegistrationLink)
	d.PrimaryField = strings.TrimSpace(d.PrimaryField)
	d.CandidateNameField = strings.TrimSpace(d.CandidateNameField)
	d.SIGField = strings.TrimSpace(d.SIGField)
}

func (d *CreateDTO) Ok(ctx context.Context) (map[string]string, bool) {
	d.Normalize()
	return constants.ValidateStruct(d)
}

func (d *CreateDTO) ToEntity() Drive {
	opts := []Option{
		WithDescription(d.Description),
		WithRegistrationLink(d.RegistrationLink),
		WithActive(d.IsActive),
		WithPublic(d.IsPublic),
	}
	if d.FormID != 0 {
		opts = append(opts, WithForm(d.FormID, d.PrimaryField, d.CandidateNameField, d.SIGField))
	}
	return New(d.Title, opts...)
}

// UpdateDTO is the edit form; OpenEdit prefills it from the drive.
type UpdateDTO struct {
	ID int64 `json:"-"`
	CreateDTO
}

func UpdateDTOFrom(d Drive) UpdateDTO {
	return UpdateDTO{
		ID: d.ID(),
		CreateDTO: CreateDTO{
			Title:              d.Title(),
			Description:        d.Description(),
			RegistrationLink:   d.RegistrationLink(),
			IsActive:           d.IsActive(),
			IsPublic:           d.IsPublic(),
			FormID:             d.FormID(),
			PrimaryField:       d.PrimaryField(),
			CandidateNameField: d.CandidateNameField(),
			SIGField:           d.SIGField(),
		},
	}
}

func (d *UpdateDTO) Ok(ctx context.Context) (map[string]string, bool) {
	return d.CreateDTO.Ok(ctx)
}

func (d *UpdateDTO) ToPatch() Patch {
	return Patch{
		Title:              &d.Title,
		Description:        &d.Description,
		RegistrationLink:   &d.RegistrationLink,
		IsActive:           &d.IsActive,
		IsPublic:           &d.IsPublic,
		FormID:             &d.FormID,
		PrimaryField:       &d.PrimaryField,
		CandidateNameField: &d.CandidateNameField,
		SIGField:           &d.SIGField,
	}
}

type TimelineEventDTO struct {
	DriveID     int64     `json:"drive" validate:"required,gt=0"`
	Title       string    `json:"title" validate:"required,max=200"`
	Date        time.Time `json:"date" validate:"required"`
	IsTentative bool      `json:"is_tentative"`
	Order       int       `json:"order" validate:"gte=0"`
}

func (d *TimelineEventDTO) Ok(ctx context.Context) (map[string]string, bool) {
	d.Title = strings.TrimSpace(d.Title)
	return constants.ValidateStruct(d)
}

func (d *TimelineEventDTO) ToEntity() TimelineEvent {
	return NewTimelineEvent(d.DriveID, d.Title, d.Date, WithTentative(d.IsTentative), WithOrder(d.Order))
}

type AssignmentDTO struct {
	DriveID        int64          `json:"drive" validate:"required,gt=0"`
	SIGID          int64          `json:"sig" validate:"required,gt=0"`
	Title          string         `json:"title" validate:"required,max=200"`
	Description    string         `json:"description"`
	SubmissionType SubmissionType `json:"submission_type" validate:"required,oneof=FILE LINK"`
	ExternalLink   string         `json:"external_link" validate:"omitempty,url"`
	FileName       string         `json:"-"`
	File           []byte         `json:"-"`
}

func EmptyAssignmentDTO(driveID int64) AssignmentDTO {
	return AssignmentDTO{DriveID: driveID, SubmissionType: SubmissionFile}
}

func (d *AssignmentDTO) Ok(ctx context.Context) (map[string]string, bool) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.ExternalLink = strings.TrimSpace(d.ExternalLink)
	errs, ok := constants.ValidateStruct(d)
	if len(d.File) > 0 && strings.TrimSpace(d.FileName) == "" {
		errs["file"] = "file name is required"
		ok = false
	}
	return errs, ok
}

func (d *AssignmentDTO) HasFile() bool {
	return len(d.File) > 0
}

func (d *AssignmentDTO) ToEntity() Assignment {
	return NewAssignment(d.DriveID, d.Title,
		WithSIG(d.SIGID, ""),
		WithAssignmentDescription(d.Description),
		WithExternalLink(d.ExternalLink),
		WithSubmissionType(d.SubmissionType),
	)
}

// SubmissionDTO is a candidate's assessment hand-in on the public site.
type SubmissionDTO struct {
	DriveID       int64  `json:"drive" validate:"required,gt=0"`
	CandidateName string `json:"candidate_name" validate:"required"`
	Identifier    string `json:"identifier" validate:"required"`
	SIG           string `json:"sig" validate:"required"`
	SolutionLink  string `json:"solution_link" validate:"omitempty,url"`
	FileName      string `json:"-"`
	File          []byte `json:"-"`
}

func (d *SubmissionDTO) Ok(ctx context.Context) (map[string]string, bool) {
	d.CandidateName = strings.TrimSpace(d.CandidateName)
	d.Identifier = strings.TrimSpace(d.Identifier)
	d.SIG = strings.TrimSpace(d.SIG)
	d.SolutionLink = strings.TrimSpace(d.SolutionLink)
	errs, ok := constants.ValidateStruct(d)
	if len(d.File) == 0 && d.SolutionLink == "" {
		errs["assessment_file"] = "upload a file or provide a solution link"
		ok = false
	}
	return errs, ok
}
