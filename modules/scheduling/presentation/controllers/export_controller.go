package controllers

import (
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	rosterservices "github.com/yamato-denko/koutei/modules/roster/services"
	"github.com/yamato-denko/koutei/modules/scheduling/services"
	"github.com/yamato-denko/koutei/pkg/application"
)

type ExportController struct {
	app           application.Application
	exportService *services.ExportService
	basePath      string
}

func NewExportController(app application.Application) application.Controller {
	return &ExportController{
		app:           app,
		exportService: app.Service(services.ExportService{}).(*services.ExportService),
		basePath:      "/api/exports",
	}
}

func (c *ExportController) Key() string {
	return c.basePath
}

func (c *ExportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/projects", c.ProjectListing).Methods(http.MethodGet)
	router.HandleFunc("/projects.xlsx", c.ProjectListingXLSX).Methods(http.MethodGet)
	router.HandleFunc("/schedule", c.Schedule).Methods(http.MethodGet)
	router.HandleFunc("/staffing", c.Staffing).Methods(http.MethodGet)
	router.HandleFunc("/individual", c.IndividualSchedule).Methods(http.MethodGet)
}

func (c *ExportController) ProjectListing(w http.ResponseWriter, r *http.Request) {
	out, err := c.exportService.ProjectListing(r.Context())
	if err != nil {
		writeInternalError(w, r, err, "failed to export project listing")
		return
	}
	writeCSV(w, services.ProjectListingFilename, out)
}

func (c *ExportController) ProjectListingXLSX(w http.ResponseWriter, r *http.Request) {
	out, err := c.exportService.ProjectListingXLSX(r.Context())
	if err != nil {
		writeInternalError(w, r, err, "failed to export project workbook")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(services.ProjectListingXLSXFilename))
	_, _ = w.Write(out)
}

func (c *ExportController) Schedule(w http.ResponseWriter, r *http.Request) {
	employees, err := c.rosterService().GetAll(r.Context())
	if err != nil {
		writeInternalError(w, r, err, "failed to load roster")
		return
	}
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.Code()] = e.DisplayName()
	}

	out, err := c.exportService.Schedule(r.Context(), names)
	if err != nil {
		writeInternalError(w, r, err, "failed to export schedule")
		return
	}
	writeCSV(w, services.ScheduleFilename, out)
}

func (c *ExportController) Staffing(w http.ResponseWriter, r *http.Request) {
	out, err := c.exportService.Staffing(r.Context())
	if err != nil {
		writeInternalError(w, r, err, "failed to export staffing table")
		return
	}
	writeCSV(w, services.StaffingFilename, out)
}

func (c *ExportController) IndividualSchedule(w http.ResponseWriter, r *http.Request) {
	employees, err := c.rosterService().GetAll(r.Context())
	if err != nil {
		writeInternalError(w, r, err, "failed to load roster")
		return
	}
	refs := make([]services.EmployeeRef, 0, len(employees))
	for _, e := range employees {
		refs = append(refs, services.EmployeeRef{Code: e.Code(), Name: e.DisplayName()})
	}

	out, err := c.exportService.IndividualSchedule(r.Context(), refs)
	if err != nil {
		writeInternalError(w, r, err, "failed to export individual schedule")
		return
	}
	writeCSV(w, services.IndividualFilename, out)
}

// rosterService is resolved per request: the roster module registers after
// scheduling, so the lookup cannot happen in the constructor.
func (c *ExportController) rosterService() *rosterservices.EmployeeService {
	return c.app.Service(rosterservices.EmployeeService{}).(*rosterservices.EmployeeService)
}

func writeCSV(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(filename))
	_, _ = w.Write([]byte(body))
}

func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
