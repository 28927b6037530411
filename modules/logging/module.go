package logging

import (
	"github.com/robocore-nitk/club-admin/modules/logging/domain/entities/actionlog"
	"github.com/robocore-nitk/club-admin/modules/logging/handlers"
	"github.com/robocore-nitk/club-admin/modules/logging/infrastructure/persistence"
	"github.com/robocore-nitk/club-admin/modules/logging/services"
	"github.com/robocore-nitk/club-admin/pkg/application"
)

type ModuleOption func(m *Module)

// WithActionLogPath stores the action log in a JSON-lines file at path.
func WithActionLogPath(path string) ModuleOption {
	return func(m *Module) { m.path = path }
}

func NewModule(opts ...ModuleOption) application.Module {
	m := &Module{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type Module struct {
	path string
}

func (m *Module) Register(app application.Application) error {
	var repo actionlog.Repository = persistence.NewActionLogRepository(persistence.DefaultCapacity)
	if m.path != "" {
		fileRepo, err := persistence.NewFileActionLogRepository(m.path, persistence.DefaultCapacity)
		if err != nil {
			return err
		}
		repo = fileRepo
	}
	service := services.NewLogsService(repo, nil)
	app.RegisterServices(service)
	handlers.RegisterRecruitmentEventHandlers(app, service)
	return nil
}

func (m *Module) Name() string {
	return "logging"
}
