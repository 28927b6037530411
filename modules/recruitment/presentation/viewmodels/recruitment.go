package viewmodels

type Drive struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	RegistrationLink string `json:"registration_link,omitempty"`
	IsActive         bool   `json:"is_active"`
	IsPublic         bool   `json:"is_public"`
	FormID           int64  `json:"form_id,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type TimelineEvent struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	IsCompleted bool   `json:"is_completed"`
	IsTentative bool   `json:"is_tentative"`
	// OriginalDate is shown struck through next to Date.
	OriginalDate string `json:"original_date,omitempty"`
	Rescheduled  bool   `json:"rescheduled"`
}

type Assignment struct {
	ID             int64  `json:"id"`
	SIG            string `json:"sig"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	SubmissionType string `json:"submission_type"`
	Link           string `json:"link,omitempty"`
}

type Application struct {
	Rank            int      `json:"rank"`
	ID              int64    `json:"id"`
	Identifier      string   `json:"identifier"`
	CandidateName   string   `json:"candidate_name"`
	SIG             string   `json:"sig"`
	OAScore         string   `json:"oa_score"`
	AssessmentScore string   `json:"assessment_score"`
	InterviewScore  string   `json:"interview_score"`
	Total           string   `json:"total"`
	Status          string   `json:"status"`
	NextStatuses    []string `json:"next_statuses"`
	InterviewTime   string   `json:"interview_time"`
	Submission      string   `json:"submission,omitempty"`
}

type Leaderboard struct {
	Items      []*Application `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	SIGs       []string       `json:"sigs"`
}

type Slot struct {
	ID            int64  `json:"id"`
	Time          string `json:"time"`
	Status        string `json:"status"`
	ApplicationID int64  `json:"application_id"`
	Candidate     string `json:"candidate"`
}

type Panel struct {
	ID      int64   `json:"id"`
	Label   string  `json:"label"`
	Members []int64 `json:"members"`
	Slots   []*Slot `json:"slots"`
	// Warning is set when the panel breaks the one-interview-at-a-time rule.
	Warning string `json:"warning,omitempty"`
}

type Evaluation struct {
	ApplicationID int64  `json:"application_id"`
	RawScore      string `json:"raw_score"`
	MaxScore      string `json:"max_score"`
	Normalized    string `json:"normalized"`
	Percent       string `json:"percent"`
}
