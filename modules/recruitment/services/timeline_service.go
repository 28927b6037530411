package services

import (
	"context"
	"time"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

type TimelineService struct {
	repo      drive.TimelineRepository
	publisher eventbus.EventBus
}

func NewTimelineService(repo drive.TimelineRepository, publisher eventbus.EventBus) *TimelineService {
	return &TimelineService{repo: repo, publisher: publisher}
}

func (s *TimelineService) List(ctx context.Context, driveID int64) ([]drive.TimelineEvent, error) {
	return s.repo.List(ctx, driveID)
}

func (s *TimelineService) Create(ctx context.Context, dto *drive.TimelineEventDTO) (drive.TimelineEvent, error) {
	if errs, ok := dto.Ok(ctx); !ok {
		return drive.TimelineEvent{}, serrors.FromMessages(errs)
	}
	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return drive.TimelineEvent{}, err
	}
	s.publish(created, "created")
	return created, nil
}

func (s *TimelineService) SetCompleted(ctx context.Context, id int64, completed bool) (drive.TimelineEvent, error) {
	updated, err := s.repo.Update(ctx, id, drive.TimelinePatch{IsCompleted: &completed})
	if err != nil {
		return drive.TimelineEvent{}, err
	}
	s.publish(updated, "completed")
	return updated, nil
}

// Reschedule moves an event. The backend keeps the first date it had as the
// original date.
func (s *TimelineService) Reschedule(ctx context.Context, id int64, date time.Time) (drive.TimelineEvent, error) {
	if date.IsZero() {
		errs := serrors.ValidationErrors{}
		errs.Add("date", "date is required")
		return drive.TimelineEvent{}, errs
	}
	updated, err := s.repo.Update(ctx, id, drive.TimelinePatch{Date: &date})
	if err != nil {
		return drive.TimelineEvent{}, err
	}
	s.publish(updated, "rescheduled")
	return updated, nil
}

func (s *TimelineService) Delete(ctx context.Context, driveID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(drive.TimelineChangedEvent{DriveID: driveID, EventID: id, Action: "deleted"})
	return nil
}

func (s *TimelineService) publish(e drive.TimelineEvent, action string) {
	s.publisher.Publish(drive.TimelineChangedEvent{DriveID: e.DriveID(), EventID: e.ID(), Action: action})
}
