package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/panel"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/value_objects/evaluation"
	"github.com/robocore-nitk/club-admin/modules/recruitment/presentation/mappers"
	"github.com/robocore-nitk/club-admin/modules/recruitment/presentation/viewmodels"
	"github.com/robocore-nitk/club-admin/modules/recruitment/services"
	"github.com/robocore-nitk/club-admin/pkg/apiclient"
	"github.com/robocore-nitk/club-admin/pkg/listview"
	"github.com/robocore-nitk/club-admin/pkg/optimistic"
	"github.com/robocore-nitk/club-admin/pkg/workflow"
)

const candidateOptionsLimit = 10

// SetApplicationStatus moves an application along the admin workflow. The
// row shows the new status at once and reverts if the backend refuses.
func (c *RecruitmentController) SetApplicationStatus(ctx context.Context, id int64, next application.Status) error {
	current, ok := c.applicationList.Find(id)
	if !ok {
		return c.report(application.ErrNotFound, "", "Failed to update status")
	}
	if !current.Status().CanTransitionTo(next) {
		err := application.ErrInvalidTransition.WithTemplateData(map[string]string{
			"from": string(current.Status()),
			"to":   string(next),
		})
		return c.report(err, "", "Failed to update status")
	}
	err := c.applicationList.Mutate(ctx, id, func(a application.Application) application.Application {
		return a.SetStatus(next)
	}, func(ctx context.Context, _ application.Application) (application.Application, error) {
		return c.applications.SetStatus(ctx, current, next)
	})
	return c.report(err, fmt.Sprintf("%s moved to %s", current.CandidateName(), next), "Failed to update status")
}

func (c *RecruitmentController) SetSearch(search string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Search = search
	c.query.Page = 1
}

// SetSIG narrows the leaderboard to one SIG; "" shows all.
func (c *RecruitmentController) SetSIG(sig string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Facets = map[string]string{services.FacetSIG: sig}
	c.query.Page = 1
}

func (c *RecruitmentController) SetSort(field application.ScoreField, dir listview.Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.SortKey = string(field)
	c.query.Direction = dir
}

func (c *RecruitmentController) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Page = page
}

func (c *RecruitmentController) Query() listview.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Leaderboard filters, ranks and pages the loaded applications. A page past
// the end is clamped and remembered.
func (c *RecruitmentController) Leaderboard() *viewmodels.Leaderboard {
	apps := c.applicationList.Items()
	q := c.Query()
	res := listview.Apply(apps, services.LeaderboardSpec(), q)

	c.mu.Lock()
	if c.query.Page == q.Page {
		c.query.Page = res.Page
	}
	c.mu.Unlock()

	return &viewmodels.Leaderboard{
		Items:      mappers.ApplicationsToViewModels(res.Items, (res.Page-1)*res.PageSize, c.loc),
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		SIGs:       services.SIGs(apps),
	}
}

// ExportLeaderboard writes the filtered, sorted leaderboard without paging.
func (c *RecruitmentController) ExportLeaderboard(w io.Writer) error {
	q := c.Query()
	spec := services.LeaderboardSpec()
	apps := listview.Filter(c.applicationList.Items(), spec, q)
	listview.Sort(apps, spec, q.SortKey, q.Direction)
	return c.report(services.ExportLeaderboard(w, apps, c.loc), "", "Failed to export leaderboard")
}

// OpenEvaluation opens the score form for one application. field selects
// which score the raw mark is saved to.
func (c *RecruitmentController) OpenEvaluation(id int64, field application.ScoreField) error {
	app, ok := c.applicationList.Find(id)
	if !ok {
		return application.ErrNotFound
	}
	if field == "" {
		field = application.ScoreInterview
	}
	c.mu.Lock()
	c.evaluateField = field
	c.mu.Unlock()
	return c.EvaluationForm.OpenEdit(evaluation.NewForm(id, app.ScorePtr(field), app.Notes()))
}

func (c *RecruitmentController) EvaluationPreview() *viewmodels.Evaluation {
	return mappers.EvaluationToViewModel(c.EvaluationForm.Value())
}

func (c *RecruitmentController) SubmitEvaluation(ctx context.Context) error {
	return c.report(c.EvaluationForm.Submit(ctx), "Evaluation saved", "Failed to save evaluation")
}

func (c *RecruitmentController) submitEvaluation(ctx context.Context, _ workflow.Mode, form evaluation.Form) error {
	c.mu.Lock()
	field := c.evaluateField
	c.mu.Unlock()
	return c.applicationList.Mutate(ctx, form.ApplicationID, func(a application.Application) application.Application {
		return a.SetScore(field, form.RawScore).SetNotes(strings.TrimSpace(form.Notes))
	}, func(ctx context.Context, _ application.Application) (application.Application, error) {
		return c.applications.Evaluate(ctx, &form, field)
	})
}

func (c *RecruitmentController) Panels() []*viewmodels.Panel {
	items := c.panelList.Items()
	out := make([]*viewmodels.Panel, 0, len(items))
	for _, p := range items {
		out = append(out, mappers.PanelToViewModel(p, c.loc))
	}
	return out
}

func (c *RecruitmentController) SubmitPanelForm(ctx context.Context) error {
	return c.report(c.PanelForm.Submit(ctx), "Panel created", "Failed to create panel")
}

func (c *RecruitmentController) submitPanel(ctx context.Context, _ workflow.Mode, dto panel.CreateDTO) error {
	return c.panelList.Create(ctx, func(ctx context.Context) error {
		_, err := c.panels.Create(ctx, &dto)
		return err
	})
}

func (c *RecruitmentController) SetPanelMembers(ctx context.Context, id int64, members []int64) error {
	err := c.panelList.Mutate(ctx, id, func(p panel.Panel) panel.Panel {
		return p.SetMembers(members)
	}, func(ctx context.Context, p panel.Panel) (panel.Panel, error) {
		return c.panels.SetMembers(ctx, id, p.Members())
	})
	return c.report(err, "Panel members updated", "Failed to update panel members")
}

func (c *RecruitmentController) RenamePanel(ctx context.Context, id int64, name string) error {
	err := c.panelList.Mutate(ctx, id, func(p panel.Panel) panel.Panel {
		return p.SetName(name)
	}, func(ctx context.Context, p panel.Panel) (panel.Panel, error) {
		return c.panels.Rename(ctx, id, p.Name())
	})
	return c.report(err, "Panel renamed", "Failed to rename panel")
}

// OpenGenerateSlots starts a schedule for panelID with every candidate who
// has no slot yet.
func (c *RecruitmentController) OpenGenerateSlots(panelID int64, start time.Time, minutes int) error {
	if _, ok := c.panelList.Find(panelID); !ok {
		return panel.ErrNotFound
	}
	if err := c.SlotsForm.OpenCreate(); err != nil {
		return err
	}
	ids := c.unscheduled()
	return c.SlotsForm.Set(func(d *panel.GenerateSlotsDTO) {
		d.PanelID = panelID
		d.StartTime = start
		d.DurationMinutes = minutes
		d.ApplicationIDs = ids
	})
}

func (c *RecruitmentController) unscheduled() []int64 {
	apps := c.applicationList.Items()
	ids := make([]int64, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ID())
	}
	return panel.Unscheduled(c.panelList.Items(), ids)
}

// CandidateOptions lists unscheduled candidates matching query, best first.
func (c *RecruitmentController) CandidateOptions(query string) []*viewmodels.Application {
	free := c.unscheduled()
	apps := slices.DeleteFunc(c.applicationList.Items(), func(a application.Application) bool {
		return !slices.Contains(free, a.ID())
	})
	return mappers.ApplicationsToViewModels(services.FindCandidates(apps, query, candidateOptionsLimit), 0, c.loc)
}

// SlotPreview shows the start times the staged schedule would produce.
func (c *RecruitmentController) SlotPreview() []string {
	dto := c.SlotsForm.Value()
	times := panel.PreviewSchedule(dto.StartTime, dto.Duration(), len(dto.ApplicationIDs))
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, mappers.FormatTime(t, c.loc))
	}
	return out
}

// SubmitGenerateSlots asks the backend for the slots, then reloads panels so
// the generated slots show with their real ids. Once the backend has created
// the slots the form closes; a failed refresh after that is only a warning.
func (c *RecruitmentController) SubmitGenerateSlots(ctx context.Context) error {
	if err := c.SlotsForm.Submit(ctx); err != nil {
		return c.report(err, "", "Failed to generate slots")
	}
	c.mu.Lock()
	created := c.lastGenerated
	c.mu.Unlock()

	message := fmt.Sprintf("Generated %d interview slots", created)
	if err := c.refreshInterviews(ctx); err != nil {
		if apiclient.IsCanceled(err) {
			return nil
		}
		c.log.WithError(err).WithField("created", created).Warn("slots generated but panels not refreshed")
		c.toast.Info(message + ", but the panels could not be refreshed")
		return nil
	}
	c.toast.Success(message)
	return nil
}

func (c *RecruitmentController) submitSlots(ctx context.Context, _ workflow.Mode, dto panel.GenerateSlotsDTO) error {
	n, err := c.panels.GenerateSlots(ctx, &dto)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.lastGenerated = n
	c.mu.Unlock()
	return nil
}

// refreshInterviews reloads panels and applications after a slot write.
func (c *RecruitmentController) refreshInterviews(ctx context.Context) error {
	var errs []error
	for _, reload := range []func(context.Context) error{c.panelList.Reload, c.applicationList.Reload} {
		if err := reload(ctx); err != nil && !errors.Is(err, optimistic.ErrSuperseded) && !errors.Is(err, optimistic.ErrNoParent) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetSlotStatus updates a slot in its panel and mirrors ONGOING and
// COMPLETED onto the candidate's application.
func (c *RecruitmentController) SetSlotStatus(ctx context.Context, slotID int64, status panel.SlotStatus) error {
	owner, slot, ok := panel.FindSlot(c.panelList.Items(), slotID)
	if !ok {
		return c.report(panel.ErrSlotNotFound, "", "Failed to update slot")
	}
	app, _ := c.applicationList.Find(slot.ApplicationID())

	var syncErr error
	err := c.panelList.Mutate(ctx, owner.ID(), func(p panel.Panel) panel.Panel {
		return p.ReplaceSlot(slot.SetStatus(status))
	}, func(ctx context.Context, p panel.Panel) (panel.Panel, error) {
		updated, err := c.panels.SetSlotStatus(ctx, slot, app, status)
		if errors.Is(err, services.ErrStatusNotSynced) {
			syncErr = err
			err = nil
		}
		if err != nil {
			return panel.Panel{}, err
		}
		return p.ReplaceSlot(updated), nil
	})
	if err != nil {
		return c.report(err, "", "Failed to update slot")
	}

	if syncErr != nil {
		c.log.WithError(syncErr).WithField("slot_id", slotID).Warn("slot saved but application status not synced")
		_ = c.applicationList.Reload(ctx)
		c.toast.Error("Slot updated, but the candidate's status could not be synced")
		return syncErr
	}
	if _, mirrored := status.ApplicationStatus(); mirrored {
		if err := c.applicationList.Reload(ctx); err != nil {
			return c.report(err, "", "Failed to refresh applications")
		}
	}
	if p, ok := c.panelList.Find(owner.ID()); ok {
		if ongoing := p.Ongoing(); len(ongoing) > 1 {
			c.log.WithField("panel_id", p.ID()).Warnf("%d interviews marked ongoing", len(ongoing))
			c.toast.Info(fmt.Sprintf("%s has %d interviews marked ongoing", p.Label(), len(ongoing)))
			return nil
		}
	}
	c.toast.Success("Slot marked " + string(status))
	return nil
}

// deleteSlot drops the slot from its panel at once, then reloads panels and
// applications once the backend confirms.
func (c *RecruitmentController) deleteSlot(ctx context.Context, slotID int64) error {
	owner, _, ok := panel.FindSlot(c.panelList.Items(), slotID)
	if !ok {
		return panel.ErrSlotNotFound
	}
	err := c.panelList.Mutate(ctx, owner.ID(), func(p panel.Panel) panel.Panel {
		return p.RemoveSlot(slotID)
	}, func(ctx context.Context, p panel.Panel) (panel.Panel, error) {
		if err := c.panels.DeleteSlot(ctx, slotID); err != nil {
			return panel.Panel{}, err
		}
		return p, nil
	})
	if err != nil {
		return err
	}
	return c.refreshInterviews(ctx)
}
