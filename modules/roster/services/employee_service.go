package services

import (
	"context"

	gerrors "github.com/go-faster/errors"

	"github.com/yamato-denko/koutei/modules/roster/domain/aggregates/employee"
	"github.com/yamato-denko/koutei/pkg/composables"
	"github.com/yamato-denko/koutei/pkg/csvio"
	"github.com/yamato-denko/koutei/pkg/eventbus"
)

// Roster CSV column names.
const (
	colCode       = "社員番号"
	colFamilyName = "姓"
	colGivenName  = "名"
	colOffice     = "事業所"
	colDepartment = "部署"
	colEmail      = "メールアドレス"
)

var (
	ErrCodeTaken      = gerrors.New("employee code already in use")
	ErrNoCodeColumn   = gerrors.New("missing employee code column")
	ErrDuplicateCodes = gerrors.New("duplicate employee codes in save set")
)

// Unassigner removes an employee code from every task referencing it. The
// scheduling module provides the implementation; running it in the delete
// transaction keeps the weak references consistent.
type Unassigner interface {
	UnassignEmployee(ctx context.Context, code string) error
}

type EmployeeService struct {
	repo       employee.Repository
	unassigner Unassigner
	publisher  eventbus.EventBus
}

func NewEmployeeService(repo employee.Repository, unassigner Unassigner, publisher eventbus.EventBus) *EmployeeService {
	return &EmployeeService{
		repo:       repo,
		unassigner: unassigner,
		publisher:  publisher,
	}
}

func (s *EmployeeService) GetAll(ctx context.Context) ([]employee.Employee, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]employee.Employee, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *EmployeeService) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		return s.repo.GetByCode(txCtx, code)
	})
}

func (s *EmployeeService) Create(ctx context.Context, data *employee.CreateDTO) (employee.Employee, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		taken, err := s.repo.Exists(txCtx, data.Code)
		if err != nil {
			return employee.Employee{}, err
		}
		if taken {
			return employee.Employee{}, ErrCodeTaken
		}
		entity := data.ToEntity()
		if err := s.repo.Create(txCtx, entity); err != nil {
			return employee.Employee{}, err
		}
		s.publisher.Publish(employee.NewCreatedEvent(entity))
		return entity, nil
	})
}

func (s *EmployeeService) Update(ctx context.Context, code string, data *employee.UpdateDTO) (employee.Employee, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		entity := data.ToEntity(code)
		if err := s.repo.Update(txCtx, entity); err != nil {
			return employee.Employee{}, err
		}
		s.publisher.Publish(employee.NewUpdatedEvent(entity))
		return entity, nil
	})
}

// Delete removes the employee and strips their code from every task that
// references it, in one transaction.
func (s *EmployeeService) Delete(ctx context.Context, code string) (employee.Employee, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		entity, err := s.repo.GetByCode(txCtx, code)
		if err != nil {
			return employee.Employee{}, err
		}
		if err := s.repo.Delete(txCtx, code); err != nil {
			return employee.Employee{}, err
		}
		if err := s.unassigner.UnassignEmployee(txCtx, code); err != nil {
			return employee.Employee{}, err
		}
		s.publisher.Publish(employee.NewDeletedEvent(entity))
		return entity, nil
	})
}

// ImportCSV parses a roster document and upserts every row that carries an
// employee code. A document without the code column is rejected before any
// persistence call; rows with an empty code are skipped.
func (s *EmployeeService) ImportCSV(ctx context.Context, text string) (int, error) {
	rows, err := csvio.Parse(text)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if _, ok := rows[0][colCode]; !ok {
		return 0, ErrNoCodeColumn
	}

	employees := make([]employee.Employee, 0, len(rows))
	for _, row := range rows {
		if row[colCode] == "" {
			continue
		}
		employees = append(employees, employee.New(
			row[colCode],
			row[colFamilyName],
			row[colGivenName],
			row[colOffice],
			row[colDepartment],
			row[colEmail],
		))
	}

	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.BatchUpsert(txCtx, employees)
	})
	if err != nil {
		return 0, err
	}
	s.publisher.Publish(&employee.ImportedEvent{Count: len(employees)})
	return len(employees), nil
}

// BulkSave commits the editable roster table in one transaction. A save set
// containing duplicate codes aborts before any write. Rows with a new_ token
// insert under their code; existing rows update in place.
func (s *EmployeeService) BulkSave(ctx context.Context, rows []*employee.BulkRowDTO) (int, error) {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.Code]; dup {
			return 0, ErrDuplicateCodes
		}
		seen[row.Code] = struct{}{}
	}

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		for _, row := range rows {
			if employee.IsTempCode(row.ID) {
				if err := s.repo.Create(txCtx, row.ToEntity()); err != nil {
					return err
				}
				continue
			}
			// Codes are immutable on update; the row keeps its identity.
			entity := employee.New(row.ID, row.FamilyName, row.GivenName, row.Office, row.Department, row.Email)
			if err := s.repo.Update(txCtx, entity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.publisher.Publish(&employee.BulkSavedEvent{Count: len(rows)})
	return len(rows), nil
}
