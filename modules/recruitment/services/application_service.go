package services

import (
	"context"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/entities/application"
	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/value_objects/evaluation"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

type ApplicationService struct {
	repo      application.Repository
	publisher eventbus.EventBus
}

func NewApplicationService(repo application.Repository, publisher eventbus.EventBus) *ApplicationService {
	return &ApplicationService{repo: repo, publisher: publisher}
}

func (s *ApplicationService) List(ctx context.Context, driveID int64) ([]application.Application, error) {
	return s.repo.List(ctx, driveID)
}

// SetStatus moves an application along the admin status workflow.
func (s *ApplicationService) SetStatus(ctx context.Context, current application.Application, next application.Status) (application.Application, error) {
	if !next.Valid() {
		return application.Application{}, application.ErrInvalidStatus.WithTemplateData(map[string]string{"status": string(next)})
	}
	if current.Status() != next && !current.Status().CanTransitionTo(next) {
		return application.Application{}, application.ErrInvalidTransition.WithTemplateData(map[string]string{
			"from": string(current.Status()),
			"to":   string(next),
		})
	}
	return s.MirrorStatus(ctx, current, next)
}

// MirrorStatus writes a status without consulting the workflow. Interview
// slots use it to keep the application in step with the panel.
func (s *ApplicationService) MirrorStatus(ctx context.Context, current application.Application, next application.Status) (application.Application, error) {
	updated, err := s.repo.Update(ctx, current.ID(), application.Patch{Status: &next})
	if err != nil {
		return application.Application{}, err
	}
	s.publisher.Publish(application.StatusChangedEvent{PreviousStatus: current.Status(), Result: updated})
	return updated, nil
}

// Evaluate stores the raw score into field (interview_score when empty) along
// with the notes.
func (s *ApplicationService) Evaluate(ctx context.Context, form *evaluation.Form, field application.ScoreField) (application.Application, error) {
	if errs, ok := form.Ok(ctx); !ok {
		return application.Application{}, serrors.FromMessages(errs)
	}
	if field == "" {
		field = application.ScoreInterview
	}
	score := form.RawScore
	patch := application.Patch{Notes: &form.Notes}
	switch field {
	case application.ScoreOA:
		patch.OAScore = &score
	case application.ScoreAssessment:
		patch.AssessmentScore = &score
	case application.ScoreInterview:
		patch.InterviewScore = &score
	default:
		errs := serrors.ValidationErrors{}
		errs.Add("field", "total cannot be scored directly")
		return application.Application{}, errs
	}
	updated, err := s.repo.Update(ctx, form.ApplicationID, patch)
	if err != nil {
		return application.Application{}, err
	}
	s.publisher.Publish(application.EvaluatedEvent{Field: field, Result: updated})
	return updated, nil
}
