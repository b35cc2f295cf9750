package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yamato-denko/koutei/modules/roster/domain/aggregates/employee"
	"github.com/yamato-denko/koutei/modules/roster/infrastructure/persistence"
	"github.com/yamato-denko/koutei/modules/roster/presentation/mappers"
	"github.com/yamato-denko/koutei/modules/roster/services"
	"github.com/yamato-denko/koutei/pkg/application"
	"github.com/yamato-denko/koutei/pkg/composables"
	"github.com/yamato-denko/koutei/pkg/csvio"
	"github.com/yamato-denko/koutei/pkg/httpapi"
	"github.com/yamato-denko/koutei/pkg/middleware"
)

const rosterExportFilename = "社員名簿.csv"

// importBodyLimit bounds uploaded roster documents.
const importBodyLimit = 4 << 20

type EmployeesAPIController struct {
	app             application.Application
	employeeService *services.EmployeeService
	basePath        string
}

func NewEmployeesAPIController(app application.Application) application.Controller {
	return &EmployeesAPIController{
		app:             app,
		employeeService: app.Service(services.EmployeeService{}).(*services.EmployeeService),
		basePath:        "/api/employees",
	}
}

func (c *EmployeesAPIController) Key() string {
	return c.basePath
}

func (c *EmployeesAPIController) Register(r *mux.Router) {
	getRouter := r.PathPrefix(c.basePath).Subrouter()
	getRouter.HandleFunc("", c.List).Methods(http.MethodGet)
	getRouter.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	getRouter.HandleFunc("/{code}", c.Get).Methods(http.MethodGet)

	setRouter := r.PathPrefix(c.basePath).Subrouter()
	setRouter.Use(middleware.WithTransaction())
	setRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	setRouter.HandleFunc("/import", c.Import).Methods(http.MethodPost)
	setRouter.HandleFunc("/bulk", c.BulkSave).Methods(http.MethodPost)
	setRouter.HandleFunc("/{code}", c.Update).Methods(http.MethodPut)
	setRouter.HandleFunc("/{code}", c.Delete).Methods(http.MethodDelete)
}

func (c *EmployeesAPIController) List(w http.ResponseWriter, r *http.Request) {
	employees, err := c.employeeService.GetAll(r.Context())
	if err != nil {
		c.writeInternalError(w, r, err, "failed to list employees")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.EmployeesToViewModels(employees))
}

func (c *EmployeesAPIController) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	entity, err := c.employeeService.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, persistence.ErrEmployeeNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "employee not found", nil)
			return
		}
		c.writeInternalError(w, r, err, "failed to load employee")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.EmployeeToViewModel(entity))
}

func (c *EmployeesAPIController) Create(w http.ResponseWriter, r *http.Request) {
	dto := &employee.CreateDTO{}
	if !c.decodeBody(w, r, dto) {
		return
	}
	if fields, ok := dto.Ok(); !ok {
		c.writeValidationError(w, fields)
		return
	}

	created, err := c.employeeService.Create(r.Context(), dto)
	if err != nil {
		if errors.Is(err, services.ErrCodeTaken) {
			_ = httpapi.WriteError(w, http.StatusConflict, "CODE_TAKEN", "この社員番号は既に使用されています。", nil)
			return
		}
		c.writeInternalError(w, r, err, "failed to create employee")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.EmployeeToViewModel(created))
}

func (c *EmployeesAPIController) Update(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	dto := &employee.UpdateDTO{}
	if !c.decodeBody(w, r, dto) {
		return
	}
	if fields, ok := dto.Ok(); !ok {
		c.writeValidationError(w, fields)
		return
	}

	updated, err := c.employeeService.Update(r.Context(), code, dto)
	if err != nil {
		if errors.Is(err, persistence.ErrEmployeeNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "employee not found", nil)
			return
		}
		c.writeInternalError(w, r, err, "failed to update employee")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.EmployeeToViewModel(updated))
}

func (c *EmployeesAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if _, err := c.employeeService.Delete(r.Context(), code); err != nil {
		if errors.Is(err, persistence.ErrEmployeeNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "employee not found", nil)
			return
		}
		c.writeInternalError(w, r, err, "failed to delete employee")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import accepts the uploaded file's decoded text content.
func (c *EmployeesAPIController) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, importBodyLimit))
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "failed to read upload", nil)
		return
	}

	count, err := c.employeeService.ImportCSV(r.Context(), string(body))
	if err != nil {
		if errors.Is(err, services.ErrNoCodeColumn) {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "PARSE_FAILED", "CSVに「社員番号」の列が見つかりません。", nil)
			return
		}
		_ = httpapi.WriteError(w, http.StatusBadRequest, "PARSE_FAILED", "malformed CSV", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (c *EmployeesAPIController) BulkSave(w http.ResponseWriter, r *http.Request) {
	var rows []*employee.BulkRowDTO
	if !c.decodeBody(w, r, &rows) {
		return
	}
	for _, row := range rows {
		if fields, ok := row.Ok(); !ok {
			c.writeValidationError(w, fields)
			return
		}
	}

	count, err := c.employeeService.BulkSave(r.Context(), rows)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateCodes) {
			_ = httpapi.WriteError(w, http.StatusConflict, "DUPLICATE_CODES",
				"保存データ内に重複する社員番号が含まれています。", nil)
			return
		}
		c.writeInternalError(w, r, err, "failed to save employees")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (c *EmployeesAPIController) Export(w http.ResponseWriter, r *http.Request) {
	employees, err := c.employeeService.GetAll(r.Context())
	if err != nil {
		c.writeInternalError(w, r, err, "failed to export roster")
		return
	}

	headers := []string{"社員番号", "姓", "名", "事業所", "部署", "メールアドレス"}
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{e.Code(), e.FamilyName(), e.GivenName(), e.Office(), e.Department(), e.Email()})
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rosterExportFilename}))
	_, _ = w.Write([]byte(csvio.Export(headers, rows)))
}

func (c *EmployeesAPIController) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return false
	}
	return true
}

func (c *EmployeesAPIController) writeValidationError(w http.ResponseWriter, fields map[string]string) {
	_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "validation failed", fields)
}

func (c *EmployeesAPIController) writeInternalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if logger, ok := composables.TryUseLogger(r.Context()); ok {
		logger.WithError(err).Error(msg)
	}
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", msg, nil)
}
