package application

import "context"

// Patch carries the application fields to change.
type Patch struct {
	Status          *Status
	OAScore         *float64
	AssessmentScore *float64
	InterviewScore  *float64
	Notes           *string
}

type Repository interface {
	List(ctx context.Context, driveID int64) ([]Application, error)
	Update(ctx context.Context, id int64, patch Patch) (Application, error)
}
