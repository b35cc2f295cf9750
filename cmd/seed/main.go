package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yamato-denko/koutei/modules"
	schedulingservices "github.com/yamato-denko/koutei/modules/scheduling/services"
	"github.com/yamato-denko/koutei/pkg/application"
	"github.com/yamato-denko/koutei/pkg/composables"
	"github.com/yamato-denko/koutei/pkg/configuration"
	"github.com/yamato-denko/koutei/pkg/eventbus"
	"github.com/yamato-denko/koutei/pkg/ws"
)

// Loads the bundled fixture CSVs into the database. Idempotent: rerunning
// upserts the same projects.
func main() {
	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
		Hub:      ws.NewHub(&ws.HubOptions{Logger: logger}),
	})
	if err := modules.Load(app); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if err := app.Migrations().Apply(ctx); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	importService := app.Service(schedulingservices.ImportService{}).(*schedulingservices.ImportService)
	count, err := importService.Seed(composables.WithPool(ctx, pool))
	if err != nil {
		log.Fatalf("failed to seed fixtures: %v", err)
	}
	log.Printf("seeded %d projects\n", count)
}
