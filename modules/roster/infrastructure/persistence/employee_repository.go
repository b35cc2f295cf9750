package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/yamato-denko/koutei/modules/roster/domain/aggregates/employee"
	"github.com/yamato-denko/koutei/pkg/composables"
)

var (
	ErrEmployeeNotFound = gerrors.New("employee not found")
)

const (
	selectEmployeeQuery = `
		SELECT code, family_name, given_name, office, department, email, created_at, updated_at
		FROM employees`

	insertEmployeeQuery = `
		INSERT INTO employees (code, family_name, given_name, office, department, email)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updateEmployeeQuery = `
		UPDATE employees
		SET family_name = $2, given_name = $3, office = $4, department = $5, email = $6, updated_at = now()
		WHERE code = $1`

	upsertEmployeeQuery = `
		INSERT INTO employees (code, family_name, given_name, office, department, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE SET
			family_name = EXCLUDED.family_name,
			given_name = EXCLUDED.given_name,
			office = EXCLUDED.office,
			department = EXCLUDED.department,
			email = EXCLUDED.email,
			updated_at = now()`
)

type PgEmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &PgEmployeeRepository{}
}

func (r *PgEmployeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectEmployeeQuery+` ORDER BY code`)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query employees")
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *PgEmployeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	row := tx.QueryRow(ctx, selectEmployeeQuery+` WHERE code = $1`, code)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *PgEmployeeRepository) Exists(ctx context.Context, code string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE code = $1)`, code).Scan(&exists); err != nil {
		return false, gerrors.Wrap(err, "failed to check employee existence")
	}
	return exists, nil
}

func (r *PgEmployeeRepository) Create(ctx context.Context, e employee.Employee) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		insertEmployeeQuery,
		e.Code(), e.FamilyName(), e.GivenName(), e.Office(), e.Department(), e.Email(),
	); err != nil {
		return gerrors.Wrap(err, "failed to insert employee")
	}
	return nil
}

func (r *PgEmployeeRepository) Update(ctx context.Context, e employee.Employee) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		updateEmployeeQuery,
		e.Code(), e.FamilyName(), e.GivenName(), e.Office(), e.Department(), e.Email(),
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update employee")
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (r *PgEmployeeRepository) Delete(ctx context.Context, code string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM employees WHERE code = $1`, code)
	if err != nil {
		return gerrors.Wrap(err, "failed to delete employee")
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (r *PgEmployeeRepository) BatchUpsert(ctx context.Context, employees []employee.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	batch := &pgx.Batch{}
	for _, e := range employees {
		batch.Queue(
			upsertEmployeeQuery,
			e.Code(), e.FamilyName(), e.GivenName(), e.Office(), e.Department(), e.Email(),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return gerrors.Wrap(err, "failed to batch upsert employees")
	}
	return nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		code, familyName, givenName, office, department, email string
		createdAt, updatedAt                                   time.Time
	)
	if err := row.Scan(&code, &familyName, &givenName, &office, &department, &email, &createdAt, &updatedAt); err != nil {
		return employee.Employee{}, err
	}
	return employee.Hydrate(code, familyName, givenName, office, department, email, createdAt, updatedAt), nil
}
