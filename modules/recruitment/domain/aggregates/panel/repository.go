package panel

import "context"

type Repository interface {
	List(ctx context.Context, driveID int64) ([]Panel, error)
	Create(ctx context.Context, p Panel) (Panel, error)
	Update(ctx context.Context, id int64, patch Patch) (Panel, error)
	Delete(ctx context.Context, id int64) error
	// GenerateSlots asks the backend to create one slot per application. The
	// call is all-or-nothing.
	GenerateSlots(ctx context.Context, dto GenerateSlotsDTO) (int, error)
}

type SlotRepository interface {
	UpdateStatus(ctx context.Context, id int64, status SlotStatus) (InterviewSlot, error)
	Delete(ctx context.Context, id int64) error
}
