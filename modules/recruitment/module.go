package recruitment

import (
	"errors"

	"github.com/robocore-nitk/club-admin/modules/recruitment/infrastructure/persistence"
	"github.com/robocore-nitk/club-admin/modules/recruitment/services"
	"github.com/robocore-nitk/club-admin/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	client := app.Client()
	if client == nil {
		return errors.New("recruitment: api client is required")
	}
	bus := app.EventPublisher()
	applications := services.NewApplicationService(persistence.NewApplicationRepository(client), bus)
	app.RegisterServices(
		services.NewDriveService(persistence.NewDriveRepository(client), persistence.NewFormSchemaRepository(client), bus),
		services.NewTimelineService(persistence.NewTimelineRepository(client), bus),
		services.NewAssignmentService(persistence.NewAssignmentRepository(client), bus),
		applications,
		services.NewPanelService(persistence.NewPanelRepository(client), persistence.NewSlotRepository(client), applications, bus),
	)
	return nil
}

func (m *Module) Name() string {
	return "recruitment"
}
