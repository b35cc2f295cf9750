package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/modules/scheduling/infrastructure/persistence"
	"github.com/yamato-denko/koutei/modules/scheduling/presentation/mappers"
	"github.com/yamato-denko/koutei/modules/scheduling/services"
	"github.com/yamato-denko/koutei/pkg/application"
	"github.com/yamato-denko/koutei/pkg/composables"
	"github.com/yamato-denko/koutei/pkg/httpapi"
	"github.com/yamato-denko/koutei/pkg/middleware"
)

type ProjectsAPIController struct {
	app            application.Application
	projectService *services.ProjectService
	importService  *services.ImportService
	basePath       string
}

func NewProjectsAPIController(app application.Application) application.Controller {
	return &ProjectsAPIController{
		app:            app,
		projectService: app.Service(services.ProjectService{}).(*services.ProjectService),
		importService:  app.Service(services.ImportService{}).(*services.ImportService),
		basePath:       "/api/projects",
	}
}

func (c *ProjectsAPIController) Key() string {
	return c.basePath
}

func (c *ProjectsAPIController) Register(r *mux.Router) {
	getRouter := r.PathPrefix(c.basePath).Subrouter()
	getRouter.HandleFunc("", c.List).Methods(http.MethodGet)
	getRouter.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)

	setRouter := r.PathPrefix(c.basePath).Subrouter()
	setRouter.Use(middleware.WithTransaction())
	setRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	setRouter.HandleFunc("/seed", c.Seed).Methods(http.MethodPost)
	setRouter.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	setRouter.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	setRouter.HandleFunc("/{id}/tasks/{taskID}/dates", c.UpdateTaskDates).Methods(http.MethodPatch)
	setRouter.HandleFunc("/{id}/manpower", c.UpsertManpower).Methods(http.MethodPut)
}

// List returns every project, or a page of them when limit is given.
func (c *ProjectsAPIController) List(w http.ResponseWriter, r *http.Request) {
	var (
		projects []project.Project
		err      error
	)
	if params, ok := paginationParams(r); ok {
		projects, err = c.projectService.GetPaginated(r.Context(), params)
	} else {
		projects, err = c.projectService.GetAll(r.Context())
	}
	if err != nil {
		writeInternalError(w, r, err, "failed to list projects")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ProjectsToViewModels(projects))
}

func paginationParams(r *http.Request) (*project.FindParams, bool) {
	limitRaw := r.URL.Query().Get("limit")
	if limitRaw == "" {
		return nil, false
	}
	limit, err := strconv.Atoi(limitRaw)
	if err != nil || limit <= 0 {
		return nil, false
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return &project.FindParams{Limit: limit, Offset: offset}, true
}

func (c *ProjectsAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entity, err := c.projectService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrProjectNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "project not found", nil)
			return
		}
		writeInternalError(w, r, err, "failed to load project")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ProjectToViewModel(entity))
}

func (c *ProjectsAPIController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &project.CreateDTO{}
	if !decodeBody(w, r, dto) {
		return
	}
	if fields, ok := dto.Ok(); !ok {
		writeValidationError(w, fields)
		return
	}

	created, err := c.projectService.Create(r.Context(), dto)
	if err != nil {
		if errors.Is(err, services.ErrProjectIDTaken) {
			_ = httpapi.WriteError(w, http.StatusConflict, "ID_TAKEN", "この工事IDは既に使用されています。", nil)
			return
		}
		writeInternalError(w, r, err, "failed to create project")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.ProjectToViewModel(created))
}

func (c *ProjectsAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	dto := &project.UpdateDTO{}
	if !decodeBody(w, r, dto) {
		return
	}
	if fields, ok := dto.Ok(); !ok {
		writeValidationError(w, fields)
		return
	}

	updated, err := c.projectService.Update(r.Context(), id, dto)
	if err != nil {
		if errors.Is(err, persistence.ErrProjectNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "project not found", nil)
			return
		}
		writeInternalError(w, r, err, "failed to update project")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ProjectToViewModel(updated))
}

func (c *ProjectsAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := c.projectService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, persistence.ErrProjectNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "project not found", nil)
			return
		}
		writeInternalError(w, r, err, "failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateTaskDates is the resize commit: one persistence update for exactly
// one task's dates. A task that vanished mid-drag is a silent no-op.
func (c *ProjectsAPIController) UpdateTaskDates(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dto := &project.TaskDatesDTO{}
	if !decodeBody(w, r, dto) {
		return
	}
	if fields, ok := dto.Ok(); !ok {
		writeValidationError(w, fields)
		return
	}
	start, end, err := dto.Dates()
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid date", nil)
		return
	}

	updated, err := c.projectService.CommitTaskDates(r.Context(), vars["id"], vars["taskID"], start, end)
	if err != nil {
		writeInternalError(w, r, err, "failed to update task dates")
		return
	}
	if !updated {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{
		"start_date": start.Format(project.DateLayout),
		"end_date":   end.Format(project.DateLayout),
	})
}

func (c *ProjectsAPIController) UpsertManpower(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	dto := &project.ManpowerDTO{}
	if !decodeBody(w, r, dto) {
		return
	}
	if fields, ok := dto.Ok(); !ok {
		writeValidationError(w, fields)
		return
	}

	if err := c.projectService.UpsertManpower(r.Context(), id, dto); err != nil {
		if errors.Is(err, persistence.ErrProjectNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "project not found", nil)
			return
		}
		writeInternalError(w, r, err, "failed to save manpower entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ProjectsAPIController) Seed(w http.ResponseWriter, r *http.Request) {
	count, err := c.importService.Seed(r.Context())
	if err != nil {
		writeInternalError(w, r, err, "failed to seed projects")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "validation failed", fields)
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if logger, ok := composables.TryUseLogger(r.Context()); ok {
		logger.WithError(err).Error(msg)
	}
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", msg, nil)
}
