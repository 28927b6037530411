package handlers

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/wI2L/jsondiff"

	"github.com/robocore-nitk/club-admin/modules/logging/domain/entities/actionlog"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	app "github.com/robocore-nitk/club-admin/pkg/application"
)

const recruitmentModule = "recruitment"

type actionLogCreator interface {
	CreateActionLog(ctx context.Context, log *actionlog.ActionLog) error
}

// RecruitmentEventsHandler turns recruitment domain events into action log
// entries.
type RecruitmentEventsHandler struct {
	service actionLogCreator
	logger  *logrus.Logger
}

func NewRecruitmentEventsHandler(a app.Application, service actionLogCreator) *RecruitmentEventsHandler {
	return &RecruitmentEventsHandler{service: service, logger: a.Logger()}
}

func RegisterRecruitmentEventHandlers(a app.Application, service actionLogCreator) *RecruitmentEventsHandler {
	h := NewRecruitmentEventsHandler(a, service)
	bus := a.EventPublisher()
	bus.Subscribe(h.onDriveCreated)
	bus.Subscribe(h.onDriveUpdated)
	bus.Subscribe(h.onDriveActivated)
	bus.Subscribe(h.onDriveDeleted)
	bus.Subscribe(h.onCandidatesSynced)
	bus.Subscribe(h.onTimelineChanged)
	bus.Subscribe(h.onAssignmentChanged)
	bus.Subscribe(h.onAssessmentSubmitted)
	bus.Subscribe(h.onStatusChanged)
	bus.Subscribe(h.onEvaluated)
	bus.Subscribe(h.onPanelCreated)
	bus.Subscribe(h.onPanelUpdated)
	bus.Subscribe(h.onPanelDeleted)
	bus.Subscribe(h.onSlotsGenerated)
	bus.Subscribe(h.onSlotStatusChanged)
	bus.Subscribe(h.onSlotDeleted)
	return h
}

func (h *RecruitmentEventsHandler) onDriveCreated(e drive.CreatedEvent) {
	h.record("created", "drive", e.Result.ID(), nil, map[string]any{"title": e.Result.Title(), "is_active": e.Result.IsActive()})
}

func (h *RecruitmentEventsHandler) onDriveUpdated(e drive.UpdatedEvent) {
	h.record("updated", "drive", e.Result.ID(), nil, map[string]any{
		"title":             e.Result.Title(),
		"registration_link": e.Result.RegistrationLink(),
		"is_active":         e.Result.IsActive(),
	})
}

func (h *RecruitmentEventsHandler) onDriveActivated(e drive.ActivatedEvent) {
	h.record("activated", "drive", e.Result.ID(), nil, nil)
}

func (h *RecruitmentEventsHandler) onDriveDeleted(e drive.DeletedEvent) {
	h.record("deleted", "drive", e.ID, nil, nil)
}

func (h *RecruitmentEventsHandler) onCandidatesSynced(e drive.CandidatesSyncedEvent) {
	h.record("synced", "drive", e.DriveID, nil, map[string]int{
		"created": e.Result.Created,
		"updated": e.Result.Updated,
		"skipped": e.Result.Skipped,
	})
}

func (h *RecruitmentEventsHandler) onTimelineChanged(e drive.TimelineChangedEvent) {
	h.record(e.Action, "timeline_event", e.EventID, nil, map[string]int64{"drive": e.DriveID})
}

func (h *RecruitmentEventsHandler) onAssignmentChanged(e drive.AssignmentChangedEvent) {
	h.record(e.Action, "assignment", e.AssignmentID, nil, map[string]int64{"drive": e.DriveID})
}

func (h *RecruitmentEventsHandler) onAssessmentSubmitted(e drive.AssessmentSubmittedEvent) {
	h.record("submitted", "assessment", e.DriveID, nil, map[string]string{"identifier": e.Identifier})
}

func (h *RecruitmentEventsHandler) onStatusChanged(e application.StatusChangedEvent) {
	h.record("status_changed", "application", e.Result.ID(),
		map[string]string{"status": string(e.PreviousStatus)},
		map[string]string{"status": string(e.Result.Status())},
	)
}

func (h *RecruitmentEventsHandler) onEvaluated(e application.EvaluatedEvent) {
	h.record("evaluated", "application", e.Result.ID(), nil, map[string]any{
		"field": e.Field,
		"score": e.Result.ScorePtr(e.Field),
	})
}

func (h *RecruitmentEventsHandler) onPanelCreated(e panel.CreatedEvent) {
	h.record("created", "panel", e.Result.ID(), nil, map[string]any{"label": e.Result.Label(), "members": e.Result.Members()})
}

func (h *RecruitmentEventsHandler) onPanelUpdated(e panel.UpdatedEvent) {
	h.record("updated", "panel", e.Result.ID(), nil, map[string]any{"label": e.Result.Label(), "members": e.Result.Members()})
}

func (h *RecruitmentEventsHandler) onPanelDeleted(e panel.DeletedEvent) {
	h.record("deleted", "panel", e.ID, nil, nil)
}

func (h *RecruitmentEventsHandler) onSlotsGenerated(e panel.SlotsGeneratedEvent) {
	h.record("slots_generated", "panel", e.PanelID, nil, map[string]int{"count": e.Count})
}

func (h *RecruitmentEventsHandler) onSlotStatusChanged(e panel.SlotStatusChangedEvent) {
	h.record("status_changed", "interview_slot", e.Result.ID(),
		map[string]string{"status": string(e.PreviousStatus)},
		map[string]string{"status": string(e.Result.Status())},
	)
}

func (h *RecruitmentEventsHandler) onSlotDeleted(e panel.SlotDeletedEvent) {
	h.record("deleted", "interview_slot", e.ID, nil, nil)
}

func (h *RecruitmentEventsHandler) record(action, subject string, id int64, before, after any) {
	entry := &actionlog.ActionLog{
		Module:    recruitmentModule,
		Action:    action,
		Subject:   subject,
		SubjectID: id,
		Before:    h.marshal(before),
		After:     h.marshal(after),
	}
	entry.Patch = h.diff(entry.Before, entry.After)
	log := h.logger.WithFields(logrus.Fields{
		"module":     recruitmentModule,
		"action":     action,
		"subject":    subject,
		"subject_id": id,
	})
	if err := h.service.CreateActionLog(context.Background(), entry); err != nil {
		log.WithError(err).Warn("failed to persist action log")
		return
	}
	log.Info("admin action")
}

func (h *RecruitmentEventsHandler) marshal(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		h.logger.WithError(err).Warn("failed to encode action log payload")
		return nil
	}
	return raw
}

func (h *RecruitmentEventsHandler) diff(before, after json.RawMessage) json.RawMessage {
	if before == nil || after == nil {
		return nil
	}
	patch, err := jsondiff.CompareJSON(before, after)
	if err != nil {
		h.logger.WithError(err).Warn("failed to diff action log payload")
		return nil
	}
	if len(patch) == 0 {
		return nil
	}
	return h.marshal(patch)
}
