package services

import (
	"context"
	"fmt"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

// ErrStatusNotSynced means the slot status was saved but mirroring it onto
// the application failed.
var ErrStatusNotSynced = serrors.NewError(
	"SLOT_STATUS_NOT_SYNCED",
	"slot updated, application status not updated",
	"Recruitment.Errors.StatusNotSynced",
)

type PanelService struct {
	repo         panel.Repository
	slots        panel.SlotRepository
	applications *ApplicationService
	publisher    eventbus.EventBus
}

func NewPanelService(
	repo panel.Repository,
	slots panel.SlotRepository,
	applications *ApplicationService,
	publisher eventbus.EventBus,
) *PanelService {
	return &PanelService{
		repo:         repo,
		slots:        slots,
		applications: applications,
		publisher:    publisher,
	}
}

func (s *PanelService) List(ctx context.Context, driveID int64) ([]panel.Panel, error) {
	return s.repo.List(ctx, driveID)
}

func (s *PanelService) Create(ctx context.Context, dto *panel.CreateDTO) (panel.Panel, error) {
	if errs, ok := dto.Ok(ctx); !ok {
		return panel.Panel{}, serrors.FromMessages(errs)
	}
	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return panel.Panel{}, err
	}
	s.publisher.Publish(panel.CreatedEvent{Result: created})
	return created, nil
}

func (s *PanelService) SetMembers(ctx context.Context, id int64, members []int64) (panel.Panel, error) {
	if members == nil {
		members = []int64{}
	}
	updated, err := s.repo.Update(ctx, id, panel.Patch{Members: members})
	if err != nil {
		return panel.Panel{}, err
	}
	s.publisher.Publish(panel.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *PanelService) Rename(ctx context.Context, id int64, name string) (panel.Panel, error) {
	updated, err := s.repo.Update(ctx, id, panel.Patch{Name: &name})
	if err != nil {
		return panel.Panel{}, err
	}
	s.publisher.Publish(panel.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *PanelService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(panel.DeletedEvent{ID: id})
	return nil
}

// GenerateSlots validates the inputs and asks the backend for one slot per
// application. It returns the number of slots created.
func (s *PanelService) GenerateSlots(ctx context.Context, dto *panel.GenerateSlotsDTO) (int, error) {
	if errs, ok := dto.Ok(ctx); !ok {
		return 0, serrors.FromMessages(errs)
	}
	n, err := s.repo.GenerateSlots(ctx, *dto)
	if err != nil {
		return 0, err
	}
	s.publisher.Publish(panel.SlotsGeneratedEvent{PanelID: dto.PanelID, Count: n})
	return n, nil
}

// SetSlotStatus updates the slot and then, for ONGOING and COMPLETED, the
// owning application. The two writes are independent; if the second fails the
// returned slot is still the saved one and the error wraps ErrStatusNotSynced.
// app may be the zero value when the caller does not hold the application.
func (s *PanelService) SetSlotStatus(ctx context.Context, slot panel.InterviewSlot, app application.Application, status panel.SlotStatus) (panel.InterviewSlot, error) {
	if _, err := panel.ParseSlotStatus(string(status)); err != nil {
		return panel.InterviewSlot{}, err
	}
	updated, err := s.slots.UpdateStatus(ctx, slot.ID(), status)
	if err != nil {
		return panel.InterviewSlot{}, err
	}
	s.publisher.Publish(panel.SlotStatusChangedEvent{PreviousStatus: slot.Status(), Result: updated})

	appStatus, mirrored := status.ApplicationStatus()
	if app.ID() == 0 {
		app = application.New(0, slot.ApplicationIdentifier(), slot.CandidateName(),
			application.WithID(slot.ApplicationID()),
			application.WithStatus(""),
		)
	}
	if !mirrored || app.Status() == appStatus {
		return updated, nil
	}
	if _, err := s.applications.MirrorStatus(ctx, app, appStatus); err != nil {
		return updated, fmt.Errorf("%w: %w", ErrStatusNotSynced, err)
	}
	return updated, nil
}

func (s *PanelService) DeleteSlot(ctx context.Context, id int64) error {
	if err := s.slots.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(panel.SlotDeletedEvent{ID: id})
	return nil
}
