package services

import (
	"context"
	"fmt"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/pkg/constants"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

type DriveService struct {
	repo      drive.Repository
	forms     drive.FormSchemaRepository
	publisher eventbus.EventBus
}

func NewDriveService(repo drive.Repository, forms drive.FormSchemaRepository, publisher eventbus.EventBus) *DriveService {
	return &DriveService{
		repo:      repo,
		forms:     forms,
		publisher: publisher,
	}
}

func (s *DriveService) List(ctx context.Context) ([]drive.Drive, error) {
	return s.repo.List(ctx)
}

// GetActivePublic returns the drive shown on the public recruitment page, or
// drive.ErrNoActiveDrive.
func (s *DriveService) GetActivePublic(ctx context.Context) (drive.Drive, error) {
	return s.repo.GetActivePublic(ctx)
}

func (s *DriveService) Create(ctx context.Context, dto *drive.CreateDTO) (drive.Drive, error) {
	if errs, ok := dto.Ok(ctx); !ok {
		return drive.Drive{}, serrors.FromMessages(errs)
	}
	if err := s.checkFieldMapping(ctx, dto); err != nil {
		return drive.Drive{}, err
	}
	created, err := s.repo.Create(ctx, dto.ToEntity())
	if err != nil {
		return drive.Drive{}, err
	}
	s.publisher.Publish(drive.CreatedEvent{Result: created})
	if created.IsActive() {
		s.publisher.Publish(drive.ActivatedEvent{Result: created})
	}
	return created, nil
}

func (s *DriveService) Update(ctx context.Context, dto *drive.UpdateDTO) (drive.Drive, error) {
	if errs, ok := dto.Ok(ctx); !ok {
		return drive.Drive{}, serrors.FromMessages(errs)
	}
	if err := s.checkFieldMapping(ctx, &dto.CreateDTO); err != nil {
		return drive.Drive{}, err
	}
	updated, err := s.repo.Update(ctx, dto.ID, dto.ToPatch())
	if err != nil {
		return drive.Drive{}, err
	}
	s.publisher.Publish(drive.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *DriveService) SetRegistrationLink(ctx context.Context, id int64, link string) (drive.Drive, error) {
	if err := constants.Validate.Var(link, "omitempty,url"); err != nil {
		errs := serrors.ValidationErrors{}
		errs.Add("registration_link", "registration_link must be a valid URL")
		return drive.Drive{}, errs
	}
	updated, err := s.repo.Update(ctx, id, drive.Patch{RegistrationLink: &link})
	if err != nil {
		return drive.Drive{}, err
	}
	s.publisher.Publish(drive.UpdatedEvent{Result: updated})
	return updated, nil
}

// SetActive sets or clears the drive's active flag. Activating one drive
// deactivates the others server-side, so callers reload the drive list.
func (s *DriveService) SetActive(ctx context.Context, id int64, active bool) (drive.Drive, error) {
	updated, err := s.repo.Update(ctx, id, drive.Patch{IsActive: &active})
	if err != nil {
		return drive.Drive{}, err
	}
	if active {
		s.publisher.Publish(drive.ActivatedEvent{Result: updated})
	} else {
		s.publisher.Publish(drive.UpdatedEvent{Result: updated})
	}
	return updated, nil
}

func (s *DriveService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(drive.DeletedEvent{ID: id})
	return nil
}

func (s *DriveService) SyncCandidates(ctx context.Context, id int64) (drive.SyncResult, error) {
	res, err := s.repo.SyncCandidates(ctx, id)
	if err != nil {
		return drive.SyncResult{}, err
	}
	s.publisher.Publish(drive.CandidatesSyncedEvent{DriveID: id, Result: res})
	return res, nil
}

func (s *DriveService) SubmitAssessment(ctx context.Context, dto *drive.SubmissionDTO) error {
	if errs, ok := dto.Ok(ctx); !ok {
		return serrors.FromMessages(errs)
	}
	if err := s.repo.SubmitAssessment(ctx, *dto); err != nil {
		return err
	}
	s.publisher.Publish(drive.AssessmentSubmittedEvent{DriveID: dto.DriveID, Identifier: dto.Identifier})
	return nil
}

// checkFieldMapping verifies the mapped form fields exist on the linked form.
func (s *DriveService) checkFieldMapping(ctx context.Context, dto *drive.CreateDTO) error {
	if dto.FormID == 0 || s.forms == nil {
		return nil
	}
	schema, err := s.forms.GetSchema(ctx, dto.FormID)
	if err != nil {
		return err
	}
	mapping := []struct {
		name, key string
	}{
		{"primary_field", dto.PrimaryField},
		{"candidate_name_field", dto.CandidateNameField},
		{"sig_field", dto.SIGField},
	}
	errs := serrors.ValidationErrors{}
	for _, m := range mapping {
		if m.key == "" {
			continue
		}
		if _, ok := schema.ByKey(m.key); !ok {
			errs.Add(m.name, fmt.Sprintf("%s is not a field of %q", m.key, schema.Title))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
