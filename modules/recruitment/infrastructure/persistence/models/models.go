package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Drive struct {
	ID                 int64           `json:"id,omitempty"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	RegistrationLink   string          `json:"registration_link"`
	IsActive           bool            `json:"is_active"`
	IsPublic           bool            `json:"is_public"`
	Form               *int64          `json:"form"`
	PrimaryField       string          `json:"primary_field"`
	CandidateNameField string          `json:"candidate_name_field"`
	SIGField           string          `json:"sig_field"`
	Timeline           []TimelineEvent `json:"timeline,omitempty"`
	Assignments        []Assignment    `json:"assignments,omitempty"`
	CreatedAt          *time.Time      `json:"created_at,omitempty"`
	UpdatedAt          *time.Time      `json:"updated_at,omitempty"`
}

// DrivePatch is the PATCH body; absent keys are left alone by the backend.
type DrivePatch struct {
	Title              *string  `json:"title,omitempty"`
	Description        *string  `json:"description,omitempty"`
	RegistrationLink   *string  `json:"registration_link,omitempty"`
	IsActive           *bool    `json:"is_active,omitempty"`
	IsPublic           *bool    `json:"is_public,omitempty"`
	Form               *FormRef `json:"form,omitempty"`
	PrimaryField       *string  `json:"primary_field,omitempty"`
	CandidateNameField *string  `json:"candidate_name_field,omitempty"`
	SIGField           *string  `json:"sig_field,omitempty"`
}

// FormRef is the linked form in a PATCH body. Zero is sent as null, which
// unlinks the form.
type FormRef int64

func (f FormRef) MarshalJSON() ([]byte, error) {
	if f == 0 {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(f), 10), nil
}

type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

type TimelineEvent struct {
	ID           int64      `json:"id,omitempty"`
	Drive        int64      `json:"drive"`
	Title        string     `json:"title"`
	Date         time.Time  `json:"date"`
	IsCompleted  bool       `json:"is_completed"`
	IsTentative  bool       `json:"is_tentative"`
	OriginalDate *time.Time `json:"original_date,omitempty"`
	Order        int        `json:"order"`
}

type TimelinePatch struct {
	Title       *string    `json:"title,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	IsCompleted *bool      `json:"is_completed,omitempty"`
	IsTentative *bool      `json:"is_tentative,omitempty"`
	Order       *int       `json:"order,omitempty"`
}

type Assignment struct {
	ID             int64  `json:"id,omitempty" form:"-"`
	Drive          int64  `json:"drive" form:"drive"`
	SIG            int64  `json:"sig" form:"sig"`
	SIGName        string `json:"sig_name,omitempty" form:"-"`
	Title          string `json:"title" form:"title"`
	Description    string `json:"description" form:"description"`
	File           string `json:"file,omitempty" form:"-"`
	ExternalLink   string `json:"external_link" form:"external_link"`
	SubmissionType string `json:"submission_type" form:"submission_type"`
}

// Submission carries the plain fields of a multipart assessment upload.
type Submission struct {
	Drive         int64  `form:"drive"`
	CandidateName string `form:"candidate_name"`
	Identifier    string `form:"identifier"`
	SIG           string `form:"sig"`
	SolutionLink  string `form:"solution_link,omitempty"`
}

// Application scores arrive as decimal strings or numbers depending on the
// serializer; NullDecimal accepts both.
type Application struct {
	ID              int64               `json:"id"`
	Drive           int64               `json:"drive"`
	Identifier      string              `json:"identifier"`
	CandidateName   string              `json:"candidate_name"`
	SIGName         string              `json:"sig_name"`
	OAScore         decimal.NullDecimal `json:"oa_score"`
	AssessmentScore decimal.NullDecimal `json:"assessment_score"`
	InterviewScore  decimal.NullDecimal `json:"interview_score"`
	InterviewTime   *time.Time          `json:"interview_time"`
	Status          string              `json:"status"`
	SolutionLink    string              `json:"solution_link"`
	AssessmentFile  string              `json:"assessment_file"`
	Notes           string              `json:"notes"`
	Responses       map[string]any      `json:"responses"`
}

type ApplicationPatch struct {
	Status          *string          `json:"status,omitempty"`
	OAScore         *decimal.Decimal `json:"oa_score,omitempty"`
	AssessmentScore *decimal.Decimal `json:"assessment_score,omitempty"`
	InterviewScore  *decimal.Decimal `json:"interview_score,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

type Panel struct {
	ID          int64           `json:"id,omitempty"`
	Drive       int64           `json:"drive"`
	PanelNumber int             `json:"panel_number"`
	Name        string          `json:"name"`
	Members     []int64         `json:"members"`
	Slots       []InterviewSlot `json:"slots,omitempty"`
}

type PanelPatch struct {
	Name        *string `json:"name,omitempty"`
	PanelNumber *int    `json:"panel_number,omitempty"`
	// Members is sent when non-nil; an empty list clears the panel.
	Members *[]int64 `json:"members,omitempty"`
}

type InterviewSlot struct {
	ID                    int64     `json:"id"`
	Panel                 int64     `json:"panel"`
	Application           int64     `json:"application"`
	StartTime             time.Time `json:"start_time"`
	Status                string    `json:"status"`
	CandidateName         string    `json:"candidate_name"`
	ApplicationIdentifier string    `json:"application_identifier"`
}

type SlotPatch struct {
	Status string `json:"status"`
}

type GenerateSlots struct {
	StartTime      time.Time `json:"start_time"`
	Duration       int       `json:"duration"`
	ApplicationIDs []int64   `json:"application_ids"`
}

// GenerateSlotsResult tolerates both the created slots and a bare count.
type GenerateSlotsResult struct {
	Created int             `json:"created"`
	Slots   []InterviewSlot `json:"slots"`
}
