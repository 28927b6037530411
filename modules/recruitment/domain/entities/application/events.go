package application

type StatusChangedEvent struct {
	PreviousStatus Status
	Result         Application
}

type EvaluatedEvent struct {
	Field  ScoreField
	Result Application
}
