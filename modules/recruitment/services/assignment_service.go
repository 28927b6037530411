package services

import (
	"context"

	"github.com/robocore-nitk/club-admin/modules/recruitment/domain/aggregates/drive"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

type AssignmentService struct {
	repo      drive.AssignmentRepository
	publisher eventbus.EventBus
}

func NewAssignmentService(repo drive.AssignmentRepository, publisher eventbus.EventBus) *AssignmentService {
	return &AssignmentService{repo: repo, publisher: publisher}
}

func (s *AssignmentService) List(ctx context.Context, driveID int64) ([]drive.Assignment, error) {
	return s.repo.List(ctx, driveID)
}

// Create uploads the brief as multipart when the dto carries a file.
func (s *AssignmentService) Create(ctx context.Context, dto *drive.AssignmentDTO) (drive.Assignment, error) {
	if errs, ok := dto.Ok(ctx); !ok {
		return drive.Assignment{}, serrors.FromMessages(errs)
	}
	var file *drive.Upload
	if dto.HasFile() {
		file = &drive.Upload{Name: dto.FileName, Content: dto.File}
	}
	created, err := s.repo.Create(ctx, dto.ToEntity(), file)
	if err != nil {
		return drive.Assignment{}, err
	}
	s.publisher.Publish(drive.AssignmentChangedEvent{DriveID: created.DriveID(), AssignmentID: created.ID(), Action: "created"})
	return created, nil
}

func (s *AssignmentService) Delete(ctx context.Context, driveID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(drive.AssignmentChangedEvent{DriveID: driveID, AssignmentID: id, Action: "deleted"})
	return nil
}
