package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/value_objects/evaluation"
	"github.com/robocore-nitk/club-admin/modules/recruitment/presentation/mappers"
	"github.com/robocore-nitk/club-admin/modules/recruitment/presentation/viewmodels"
	"github.com/robocore-nitk/club-admin/modules/recruitment/services"
	"github.com/robocore-nitk/club-admin/pkg/apiclient"
	"github.com/robocore-nitk/club-admin/pkg/listview"
	"github.com/robocore-nitk/club-admin/pkg/logging"
	"github.com/robocore-nitk/club-admin/pkg/optimistic"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
	"github.com/robocore-nitk/club-admin/pkg/toast"
	"github.com/robocore-nitk/club-admin/pkg/workflow"
)

const defaultPageSize = 20

type RecruitmentControllerDeps struct {
	Drives       *services.DriveService
	Timeline     *services.TimelineService
	Assignments  *services.AssignmentService
	Applications *services.ApplicationService
	Panels       *services.PanelService

	Toast    *toast.Controller
	Logger   *logrus.Logger
	Location *time.Location
	PageSize int
	// RevertByRefetch reloads a list after a rejected optimistic edit instead
	// of restoring the previous value.
	RevertByRefetch bool
}

// RecruitmentController holds the admin recruitment screen: the drive list,
// the selected drive's nested lists, the open forms and the pending deletes.
// It is safe for use from multiple goroutines.
type RecruitmentController struct {
	drives       *services.DriveService
	timeline     *services.TimelineService
	assignments  *services.AssignmentService
	applications *services.ApplicationService
	panels       *services.PanelService
	toast        *toast.Controller
	log          *logrus.Entry
	loc          *time.Location

	driveList       *optimistic.List[drive.Drive, int64]
	timelineList    *optimistic.List[drive.TimelineEvent, int64]
	assignmentList  *optimistic.List[drive.Assignment, int64]
	applicationList *optimistic.List[application.Application, int64]
	panelList       *optimistic.List[panel.Panel, int64]

	DriveForm      *workflow.Form[drive.UpdateDTO]
	TimelineForm   *workflow.Form[drive.TimelineEventDTO]
	AssignmentForm *workflow.Form[drive.AssignmentDTO]
	EvaluationForm *workflow.Form[evaluation.Form]
	PanelForm      *workflow.Form[panel.CreateDTO]
	SlotsForm      *workflow.Form[panel.GenerateSlotsDTO]

	DeleteDrive      *workflow.ConfirmGate[int64]
	DeleteTimeline   *workflow.ConfirmGate[int64]
	DeleteAssignment *workflow.ConfirmGate[int64]
	DeletePanel      *workflow.ConfirmGate[int64]
	DeleteSlot       *workflow.ConfirmGate[int64]

	mu            sync.Mutex
	selected      int64
	cancelSelect  context.CancelFunc
	query         listview.Query
	evaluateField application.ScoreField
	lastGenerated int
}

func NewRecruitmentController(deps RecruitmentControllerDeps) *RecruitmentController {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	tc := deps.Toast
	if tc == nil {
		tc = toast.New()
	}

	c := &RecruitmentController{
		drives:        deps.Drives,
		timeline:      deps.Timeline,
		assignments:   deps.Assignments,
		applications:  deps.Applications,
		panels:        deps.Panels,
		toast:         tc,
		log:           logger.WithField("component", "recruitment"),
		loc:           loc,
		query:         services.LeaderboardQuery("", "", 1, pageSize),
		evaluateField: application.ScoreInterview,
	}

	listOpts := func(name string) []optimistic.Option {
		opts := []optimistic.Option{optimistic.WithLogger(logger, name)}
		if deps.RevertByRefetch {
			opts = append(opts, optimistic.WithRevertByRefetch())
		}
		return opts
	}
	c.driveList = optimistic.New(drive.Drive.ID, func(ctx context.Context, _ int64) ([]drive.Drive, error) {
		return c.drives.List(ctx)
	}, listOpts("drives")...)
	c.timelineList = optimistic.New(drive.TimelineEvent.ID, c.timeline.List, listOpts("timeline")...)
	c.assignmentList = optimistic.New(drive.Assignment.ID, c.assignments.List, listOpts("assignments")...)
	c.applicationList = optimistic.New(application.Application.ID, c.applications.List, listOpts("applications")...)
	c.panelList = optimistic.New(panel.Panel.ID, c.panels.List, listOpts("panels")...)

	c.DriveForm = workflow.NewForm(func() drive.UpdateDTO {
		return drive.UpdateDTO{CreateDTO: drive.EmptyCreateDTO()}
	}, c.submitDrive)
	c.TimelineForm = workflow.NewForm(func() drive.TimelineEventDTO {
		return drive.TimelineEventDTO{DriveID: c.SelectedDriveID(), Order: len(c.timelineList.Items())}
	}, c.submitTimeline)
	c.AssignmentForm = workflow.NewForm(func() drive.AssignmentDTO {
		return drive.EmptyAssignmentDTO(c.SelectedDriveID())
	}, c.submitAssignment)
	c.EvaluationForm = workflow.NewForm[evaluation.Form](nil, c.submitEvaluation)
	c.PanelForm = workflow.NewForm(func() panel.CreateDTO {
		return panel.CreateDTO{DriveID: c.SelectedDriveID(), PanelNumber: panel.NextPanelNumber(c.panelList.Items())}
	}, c.submitPanel)
	c.SlotsForm = workflow.NewForm[panel.GenerateSlotsDTO](nil, c.submitSlots)

	c.DeleteDrive = workflow.NewConfirmGate(c.deleteDrive)
	c.DeleteTimeline = workflow.NewConfirmGate(func(ctx context.Context, id int64) error {
		return c.timelineList.Remove(ctx, id, func(ctx context.Context, id int64) error {
			return c.timeline.Delete(ctx, c.SelectedDriveID(), id)
		})
	})
	c.DeleteAssignment = workflow.NewConfirmGate(func(ctx context.Context, id int64) error {
		return c.assignmentList.Remove(ctx, id, func(ctx context.Context, id int64) error {
			return c.assignments.Delete(ctx, c.SelectedDriveID(), id)
		})
	})
	c.DeletePanel = workflow.NewConfirmGate(func(ctx context.Context, id int64) error {
		return c.panelList.Remove(ctx, id, c.panels.Delete)
	})
	c.DeleteSlot = workflow.NewConfirmGate(c.deleteSlot)
	return c
}

func (c *RecruitmentController) Toast() *toast.Controller {
	return c.toast
}

// Mount loads the drives and selects the active one, or the first.
func (c *RecruitmentController) Mount(ctx context.Context) error {
	if err := c.driveList.Load(ctx, 0); err != nil {
		return c.report(err, "", "Failed to load recruitment drives")
	}
	selected, ok := drive.Select(c.driveList.Items())
	if !ok {
		c.clearSelection()
		return nil
	}
	return c.SelectDrive(ctx, selected.ID())
}

// SelectDrive loads the drive's timeline, assignments, applications and
// panels concurrently. A later selection cancels the loads of this one.
func (c *RecruitmentController) SelectDrive(ctx context.Context, id int64) error {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cancelSelect != nil {
		c.cancelSelect()
	}
	c.cancelSelect = cancel
	c.selected = id
	c.query.Page = 1
	c.mu.Unlock()

	// every list settles even if one fails, so none keeps the previous drive
	var g errgroup.Group
	g.Go(func() error { return c.timelineList.Load(ctx, id) })
	g.Go(func() error { return c.assignmentList.Load(ctx, id) })
	g.Go(func() error { return c.applicationList.Load(ctx, id) })
	g.Go(func() error { return c.panelList.Load(ctx, id) })
	err := g.Wait()

	if c.SelectedDriveID() != id || errors.Is(err, optimistic.ErrSuperseded) {
		return nil
	}
	return c.report(err, "", "Failed to load drive details")
}

func (c *RecruitmentController) clearSelection() {
	c.mu.Lock()
	if c.cancelSelect != nil {
		c.cancelSelect()
		c.cancelSelect = nil
	}
	c.selected = 0
	c.mu.Unlock()
	c.timelineList.Reset()
	c.assignmentList.Reset()
	c.applicationList.Reset()
	c.panelList.Reset()
}

func (c *RecruitmentController) SelectedDriveID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *RecruitmentController) Drives() []*viewmodels.Drive {
	items := c.driveList.Items()
	out := make([]*viewmodels.Drive, 0, len(items))
	for _, d := range items {
		out = append(out, mappers.DriveToViewModel(d, c.loc))
	}
	return out
}

func (c *RecruitmentController) SelectedDrive() (*viewmodels.Drive, bool) {
	d, ok := c.driveList.Find(c.SelectedDriveID())
	if !ok {
		return nil, false
	}
	return mappers.DriveToViewModel(d, c.loc), true
}

func (c *RecruitmentController) Timeline() []*viewmodels.TimelineEvent {
	items := drive.SortTimeline(c.timelineList.Items())
	out := make([]*viewmodels.TimelineEvent, 0, len(items))
	for _, e := range items {
		out = append(out, mappers.TimelineEventToViewModel(e, c.loc))
	}
	return out
}

func (c *RecruitmentController) Assignments() []*viewmodels.Assignment {
	items := c.assignmentList.Items()
	out := make([]*viewmodels.Assignment, 0, len(items))
	for _, a := range items {
		out = append(out, mappers.AssignmentToViewModel(a))
	}
	return out
}

func (c *RecruitmentController) OpenEditDrive(id int64) error {
	d, ok := c.driveList.Find(id)
	if !ok {
		return drive.ErrNotFound
	}
	return c.DriveForm.OpenEdit(drive.UpdateDTOFrom(d))
}

// SubmitDriveForm sends the drive form and reports the outcome.
func (c *RecruitmentController) SubmitDriveForm(ctx context.Context) error {
	created := c.DriveForm.Mode() == workflow.ModeCreate
	err := c.DriveForm.Submit(ctx)
	if created {
		return c.report(err, "Drive created", "Failed to create drive")
	}
	return c.report(err, "Drive updated", "Failed to update drive")
}

func (c *RecruitmentController) submitDrive(ctx context.Context, mode workflow.Mode, dto drive.UpdateDTO) error {
	if mode == workflow.ModeCreate {
		var created drive.Drive
		err := c.driveList.Create(ctx, func(ctx context.Context) error {
			d, err := c.drives.Create(ctx, &dto.CreateDTO)
			created = d
			return err
		})
		if err != nil {
			return err
		}
		if c.SelectedDriveID() == 0 {
			return c.SelectDrive(ctx, created.ID())
		}
		return nil
	}
	before, _ := c.driveList.Find(dto.ID)
	err := c.driveList.Mutate(ctx, dto.ID, func(d drive.Drive) drive.Drive {
		return d.SetRegistrationLink(dto.RegistrationLink).SetActive(dto.IsActive)
	}, func(ctx context.Context, _ drive.Drive) (drive.Drive, error) {
		return c.drives.Update(ctx, &dto)
	})
	if err == nil && dto.IsActive && !before.IsActive() {
		// activating one drive deactivates the rest server-side
		err = c.driveList.Reload(ctx)
	}
	return err
}

// UpdateRegistrationLink edits the link in place and reverts if the backend
// rejects it.
func (c *RecruitmentController) UpdateRegistrationLink(ctx context.Context, id int64, link string) error {
	err := c.driveList.Mutate(ctx, id, func(d drive.Drive) drive.Drive {
		return d.SetRegistrationLink(link)
	}, func(ctx context.Context, d drive.Drive) (drive.Drive, error) {
		return c.drives.SetRegistrationLink(ctx, id, d.RegistrationLink())
	})
	return c.report(err, "Registration link saved", "Failed to save registration link")
}

// SetDriveActive activates or deactivates a drive and reloads the list, since
// activating one drive deactivates the others.
func (c *RecruitmentController) SetDriveActive(ctx context.Context, id int64, active bool) error {
	_, err := c.drives.SetActive(ctx, id, active)
	if err == nil {
		err = c.driveList.Reload(ctx)
	}
	if active {
		return c.report(err, "Drive is now active", "Failed to activate drive")
	}
	return c.report(err, "Drive deactivated", "Failed to deactivate drive")
}

// ToggleDriveActive flips the drive's active flag.
func (c *RecruitmentController) ToggleDriveActive(ctx context.Context, id int64) error {
	d, ok := c.driveList.Find(id)
	if !ok {
		return c.report(drive.ErrNotFound, "", "Failed to update drive")
	}
	return c.SetDriveActive(ctx, id, !d.IsActive())
}

func (c *RecruitmentController) deleteDrive(ctx context.Context, id int64) error {
	err := c.driveList.Remove(ctx, id, c.drives.Delete)
	if err == nil && c.SelectedDriveID() == id {
		if next, ok := drive.Select(c.driveList.Items()); ok {
			err = c.SelectDrive(ctx, next.ID())
		} else {
			c.clearSelection()
		}
	}
	return err
}

// ConfirmDelete runs a gated delete and reports the outcome. It does nothing
// unless the gate holds a pending request.
func (c *RecruitmentController) ConfirmDelete(ctx context.Context, gate *workflow.ConfirmGate[int64], what string) error {
	fired, err := gate.Confirm(ctx)
	if !fired {
		return nil
	}
	return c.report(err, what+" deleted", "Failed to delete "+what)
}

func (c *RecruitmentController) SyncCandidates(ctx context.Context) error {
	id := c.SelectedDriveID()
	if id == 0 {
		return c.report(drive.ErrNoActiveDrive, "", "Failed to sync candidates")
	}
	res, err := c.drives.SyncCandidates(ctx, id)
	if err == nil {
		err = c.applicationList.Reload(ctx)
	}
	return c.report(err, fmt.Sprintf("Synced %d candidates (%d new, %d updated)", res.Total(), res.Created, res.Updated), "Failed to sync candidates")
}

func (c *RecruitmentController) SubmitTimelineForm(ctx context.Context) error {
	return c.report(c.TimelineForm.Submit(ctx), "Timeline event added", "Failed to add timeline event")
}

func (c *RecruitmentController) submitTimeline(ctx context.Context, _ workflow.Mode, dto drive.TimelineEventDTO) error {
	return c.timelineList.Create(ctx, func(ctx context.Context) error {
		_, err := c.timeline.Create(ctx, &dto)
		return err
	})
}

func (c *RecruitmentController) ToggleTimelineCompleted(ctx context.Context, id int64) error {
	err := c.timelineList.Mutate(ctx, id, drive.TimelineEvent.ToggleCompleted,
		func(ctx context.Context, e drive.TimelineEvent) (drive.TimelineEvent, error) {
			return c.timeline.SetCompleted(ctx, id, e.IsCompleted())
		})
	return c.report(err, "", "Failed to update timeline event")
}

func (c *RecruitmentController) RescheduleTimeline(ctx context.Context, id int64, date time.Time) error {
	err := c.timelineList.Mutate(ctx, id, func(e drive.TimelineEvent) drive.TimelineEvent {
		return e.Reschedule(date)
	}, func(ctx context.Context, _ drive.TimelineEvent) (drive.TimelineEvent, error) {
		return c.timeline.Reschedule(ctx, id, date)
	})
	return c.report(err, "Timeline event rescheduled", "Failed to reschedule timeline event")
}

func (c *RecruitmentController) SubmitAssignmentForm(ctx context.Context) error {
	return c.report(c.AssignmentForm.Submit(ctx), "Assignment added", "Failed to add assignment")
}

func (c *RecruitmentController) submitAssignment(ctx context.Context, _ workflow.Mode, dto drive.AssignmentDTO) error {
	return c.assignmentList.Create(ctx, func(ctx context.Context) error {
		_, err := c.assignments.Create(ctx, &dto)
		return err
	})
}

// report turns an outcome into a toast. Cancellation is returned untouched
// and never shown.
func (c *RecruitmentController) report(err error, success, failure string) error {
	switch {
	case err == nil:
		if success != "" {
			c.toast.Success(success)
		}
		return nil
	case apiclient.IsCanceled(err), errors.Is(err, optimistic.ErrSuperseded):
		return err
	}
	c.log.WithError(err).Warn(failure)
	c.toast.Error(userMessage(err, failure))
	return err
}

func userMessage(err error, fallback string) string {
	if _, ok := apiclient.AsError(err); ok {
		return apiclient.UserMessage(err, fallback)
	}
	var verrs serrors.ValidationErrors
	if errors.As(err, &verrs) {
		return fallback + ": check the highlighted fields"
	}
	var base *serrors.BaseError
	if errors.As(err, &base) {
		return base.Message
	}
	return fallback
}
