package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/yamato-denko/koutei/modules/roster/domain/aggregates/employee"
	rostermappers "github.com/yamato-denko/koutei/modules/roster/presentation/mappers"
	rosterviewmodels "github.com/yamato-denko/koutei/modules/roster/presentation/viewmodels"
	rosterservices "github.com/yamato-denko/koutei/modules/roster/services"
	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/modules/scheduling/presentation/mappers"
	"github.com/yamato-denko/koutei/modules/scheduling/presentation/viewmodels"
	"github.com/yamato-denko/koutei/modules/scheduling/services"
	"github.com/yamato-denko/koutei/pkg/application"
	"github.com/yamato-denko/koutei/pkg/composables"
	"github.com/yamato-denko/koutei/pkg/ws"
)

// snapshot is the full current record set, pushed whenever anything changes.
// Clients treat it as replacement state; there is no diffing contract.
type snapshot struct {
	Projects  []viewmodels.Project        `json:"projects"`
	Employees []rosterviewmodels.Employee `json:"employees"`
}

// broadcastDelay gives the mutating transaction time to commit before the
// snapshot is re-read, and coalesces event bursts into one broadcast.
const broadcastDelay = 50 * time.Millisecond

// FeedController exposes the real-time feed. Every committed mutation
// publishes a domain event; each one triggers a fresh snapshot broadcast to
// all connected clients, and new connections get the snapshot on upgrade.
type FeedController struct {
	app            application.Application
	projectService *services.ProjectService
	basePath       string
	notify         chan struct{}
}

func NewFeedController(app application.Application) application.Controller {
	c := &FeedController{
		app:            app,
		projectService: app.Service(services.ProjectService{}).(*services.ProjectService),
		basePath:       "/ws",
		notify:         make(chan struct{}, 1),
	}
	c.subscribe()
	go c.broadcastLoop()
	return c
}

func (c *FeedController) Key() string {
	return c.basePath
}

func (c *FeedController) Register(r *mux.Router) {
	hub := c.app.Websocket()
	hub.SetOnConnect(c.onConnect)
	r.Handle(c.basePath, hub).Methods(http.MethodGet)
}

func (c *FeedController) subscribe() {
	bus := c.app.EventPublisher()
	bus.Subscribe(func(*project.CreatedEvent) { c.schedule() })
	bus.Subscribe(func(*project.UpdatedEvent) { c.schedule() })
	bus.Subscribe(func(*project.DeletedEvent) { c.schedule() })
	bus.Subscribe(func(*project.TaskDatesUpdatedEvent) { c.schedule() })
	bus.Subscribe(func(*project.SeededEvent) { c.schedule() })
	bus.Subscribe(func(*project.ManpowerUpdatedEvent) { c.schedule() })
	bus.Subscribe(func(*employee.CreatedEvent) { c.schedule() })
	bus.Subscribe(func(*employee.UpdatedEvent) { c.schedule() })
	bus.Subscribe(func(*employee.DeletedEvent) { c.schedule() })
	bus.Subscribe(func(*employee.ImportedEvent) { c.schedule() })
	bus.Subscribe(func(*employee.BulkSavedEvent) { c.schedule() })
}

func (c *FeedController) schedule() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *FeedController) broadcastLoop() {
	for range c.notify {
		time.Sleep(broadcastDelay)
		// Drain anything that piled up during the delay; the snapshot that
		// follows covers all of it.
		select {
		case <-c.notify:
		default:
		}
		c.broadcast()
	}
}

func (c *FeedController) onConnect(r *http.Request, conn *ws.Connection) error {
	msg, err := c.snapshotJSON(r.Context())
	if err != nil {
		return err
	}
	conn.Send(msg)
	return nil
}

func (c *FeedController) broadcast() {
	ctx := composables.WithPool(context.Background(), c.app.DB())
	msg, err := c.snapshotJSON(ctx)
	if err != nil {
		c.app.Logger().WithError(err).Error("feed: failed to build snapshot")
		return
	}
	c.app.Websocket().Broadcast(msg)
}

func (c *FeedController) snapshotJSON(ctx context.Context) ([]byte, error) {
	projects, err := c.projectService.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := c.rosterService().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshot{
		Projects:  mappers.ProjectsToViewModels(projects),
		Employees: rostermappers.EmployeesToViewModels(employees),
	})
}

func (c *FeedController) rosterService() *rosterservices.EmployeeService {
	return c.app.Service(rosterservices.EmployeeService{}).(*rosterservices.EmployeeService)
}
