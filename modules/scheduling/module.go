package scheduling

import (
	"embed"

	"github.com/jonboulle/clockwork"

	"github.com/yamato-denko/koutei/modules/scheduling/infrastructure/persistence"
	"github.com/yamato-denko/koutei/modules/scheduling/presentation/controllers"
	"github.com/yamato-denko/koutei/modules/scheduling/services"
	"github.com/yamato-denko/koutei/pkg/application"
	"github.com/yamato-denko/koutei/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/scheduling-schema.sql
var MigrationFiles embed.FS

//go:embed infrastructure/seed/kouji.csv
var seedProjectsCSV string

//go:embed infrastructure/seed/shain.csv
var seedEmployeesCSV string

//go:embed infrastructure/seed/keireki.csv
var seedHistoryCSV string

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	repo := persistence.NewProjectRepository()
	clock := clockwork.NewRealClock()

	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewProjectService(repo, app.EventPublisher()),
		services.NewChartService(repo, clock, conf.Chart.CellWidth),
		services.NewImportService(repo, app.EventPublisher(), services.SeedFixtures{
			ProjectsCSV:  seedProjectsCSV,
			EmployeesCSV: seedEmployeesCSV,
			HistoryCSV:   seedHistoryCSV,
		}),
		services.NewExportService(repo, clock),
	)
	app.RegisterControllers(
		controllers.NewProjectsAPIController(app),
		controllers.NewChartAPIController(app),
		controllers.NewExportController(app),
		controllers.NewFeedController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "scheduling"
}
