package roster

import (
	"embed"

	"github.com/yamato-denko/koutei/modules/roster/infrastructure/persistence"
	"github.com/yamato-denko/koutei/modules/roster/presentation/controllers"
	"github.com/yamato-denko/koutei/modules/roster/services"
	schedulingservices "github.com/yamato-denko/koutei/modules/scheduling/services"
	"github.com/yamato-denko/koutei/pkg/application"
)

//go:embed infrastructure/persistence/schema/roster-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

// Register wires the roster. Depends on the scheduling module being
// registered first: deleting an employee unassigns them from tasks through
// the project service.
func (m *Module) Register(app application.Application) error {
	unassigner := app.Service(schedulingservices.ProjectService{}).(*schedulingservices.ProjectService)

	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewEmployeeService(persistence.NewEmployeeRepository(), unassigner, app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewEmployeesAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "roster"
}
