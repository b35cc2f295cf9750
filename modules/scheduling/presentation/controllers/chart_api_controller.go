package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yamato-denko/koutei/modules/scheduling/presentation/mappers"
	"github.com/yamato-denko/koutei/modules/scheduling/services"
	"github.com/yamato-denko/koutei/pkg/application"
	"github.com/yamato-denko/koutei/pkg/httpapi"
)

type ChartAPIController struct {
	app          application.Application
	chartService *services.ChartService
	basePath     string
}

func NewChartAPIController(app application.Application) application.Controller {
	return &ChartAPIController{
		app:          app,
		chartService: app.Service(services.ChartService{}).(*services.ChartService),
		basePath:     "/api/chart",
	}
}

func (c *ChartAPIController) Key() string {
	return c.basePath
}

func (c *ChartAPIController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.Get).Methods(http.MethodGet)
}

func (c *ChartAPIController) Get(w http.ResponseWriter, r *http.Request) {
	data, err := c.chartService.ChartData(r.Context())
	if err != nil {
		writeInternalError(w, r, err, "failed to build chart")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ChartToViewModel(data))
}
