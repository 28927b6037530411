package modules

import (
	"github.com/robocore-nitk/club-admin/modules/logging"
	"github.com/robocore-nitk/club-admin/modules/recruitment"
	"github.com/robocore-nitk/club-admin/pkg/application"
)

var (
	BuiltInModules = []application.Module{
		recruitment.NewModule(),
		logging.NewModule(), // action log of recruitment events
	}
)

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
