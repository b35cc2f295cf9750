package employee

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	Exists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, e Employee) error
	Update(ctx context.Context, e Employee) error
	Delete(ctx context.Context, code string) error

	// BatchUpsert writes all employees in one batch, keyed by code.
	BatchUpsert(ctx context.Context, employees []Employee) error
}
