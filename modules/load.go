package modules

import (
	"github.com/yamato-denko/koutei/modules/roster"
	"github.com/yamato-denko/koutei/modules/scheduling"
	"github.com/yamato-denko/koutei/pkg/application"
)

// BuiltInModules in registration order. Scheduling must come before roster:
// the roster wires the employee delete cascade through the project service.
var BuiltInModules = []application.Module{
	scheduling.NewModule(),
	roster.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range append(BuiltInModules, externalModules...) {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
