package panel

type CreatedEvent struct {
	Result Panel
}

type UpdatedEvent struct {
	Result Panel
}

type DeletedEvent struct {
	ID int64
}

type SlotsGeneratedEvent struct {
	PanelID int64
	Count   int
}

type SlotStatusChangedEvent struct {
	PreviousStatus SlotStatus
	Result         InterviewSlot
}

type SlotDeletedEvent struct {
	ID int64
}
