package drive

type CreatedEvent struct {
	Result Drive
}

type UpdatedEvent struct {
	Result Drive
}

// ActivatedEvent is published when a drive becomes the public one; the
// backend deactivates every other drive.
type ActivatedEvent struct {
	Result Drive
}

type DeletedEvent struct {
	ID int64
}

type CandidatesSyncedEvent struct {
	DriveID int64
	Result  SyncResult
}

type TimelineChangedEvent struct {
	DriveID int64
	EventID int64
	Action  string
}

type AssignmentChangedEvent struct {
	DriveID      int64
	AssignmentID int64
	Action       string
}

type AssessmentSubmittedEvent struct {
	DriveID    int64
	Identifier string
}
