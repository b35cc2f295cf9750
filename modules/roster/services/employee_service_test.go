package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamato-denko/koutei/modules/roster/domain/aggregates/employee"
	"github.com/yamato-denko/koutei/pkg/constants"
)

type mockEmployeeRepo struct {
	employees map[string]employee.Employee

	created []employee.Employee
	updated []employee.Employee
	batched [][]employee.Employee
	deleted []string
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: map[string]employee.Employee{}}
}

func (m *mockEmployeeRepo) GetAll(ctx context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	e, ok := m.employees[code]
	if !ok {
		return employee.Employee{}, assert.AnError
	}
	return e, nil
}

func (m *mockEmployeeRepo) Exists(ctx context.Context, code string) (bool, error) {
	_, ok := m.employees[code]
	return ok, nil
}

func (m *mockEmployeeRepo) Create(ctx context.Context, e employee.Employee) error {
	m.created = append(m.created, e)
	m.employees[e.Code()] = e
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, e employee.Employee) error {
	m.updated = append(m.updated, e)
	m.employees[e.Code()] = e
	return nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, code string) error {
	m.deleted = append(m.deleted, code)
	delete(m.employees, code)
	return nil
}

func (m *mockEmployeeRepo) BatchUpsert(ctx context.Context, employees []employee.Employee) error {
	m.batched = append(m.batched, employees)
	for _, e := range employees {
		m.employees[e.Code()] = e
	}
	return nil
}

type mockUnassigner struct {
	codes []string
}

func (m *mockUnassigner) UnassignEmployee(ctx context.Context, code string) error {
	m.codes = append(m.codes, code)
	return nil
}

type stubPublisher struct {
	events []interface{}
}

func (p *stubPublisher) Publish(args ...interface{})     { p.events = append(p.events, args...) }
func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

// txContext satisfies the transaction composables; mock repos never touch
// the stored value.
func txContext() context.Context {
	return context.WithValue(context.Background(), constants.TxKey, struct{}{})
}

func TestEmployeeService_CreateRejectsTakenCode(t *testing.T) {
	repo := newMockEmployeeRepo()
	repo.employees["1001"] = employee.New("1001", "山田", "太郎", "", "", "")
	svc := NewEmployeeService(repo, &mockUnassigner{}, &stubPublisher{})

	_, err := svc.Create(txContext(), &employee.CreateDTO{
		Code:       "1001",
		FamilyName: "鈴木",
		GivenName:  "次郎",
	})

	require.ErrorIs(t, err, ErrCodeTaken)
	assert.Empty(t, repo.created)
}

func TestEmployeeService_DeleteUnassignsFromTasks(t *testing.T) {
	repo := newMockEmployeeRepo()
	repo.employees["1001"] = employee.New("1001", "山田", "太郎", "", "", "")
	unassigner := &mockUnassigner{}
	publisher := &stubPublisher{}
	svc := NewEmployeeService(repo, unassigner, publisher)

	deleted, err := svc.Delete(txContext(), "1001")

	require.NoError(t, err)
	assert.Equal(t, "1001", deleted.Code())
	assert.Equal(t, []string{"1001"}, repo.deleted)
	assert.Equal(t, []string{"1001"}, unassigner.codes, "code stripped from referencing tasks")
	require.Len(t, publisher.events, 1)
	assert.IsType(t, &employee.DeletedEvent{}, publisher.events[0])
}

func TestEmployeeService_ImportCSVRequiresCodeColumn(t *testing.T) {
	repo := newMockEmployeeRepo()
	svc := NewEmployeeService(repo, &mockUnassigner{}, &stubPublisher{})

	_, err := svc.ImportCSV(txContext(), "姓,名\n山田,太郎\n")

	require.ErrorIs(t, err, ErrNoCodeColumn)
	assert.Empty(t, repo.batched, "rejected before any persistence call")
}

func TestEmployeeService_ImportCSVSkipsRowsWithoutCode(t *testing.T) {
	repo := newMockEmployeeRepo()
	svc := NewEmployeeService(repo, &mockUnassigner{}, &stubPublisher{})

	count, err := svc.ImportCSV(txContext(), "社員番号,姓,名,事業所,部署,メールアドレス\n1001,山田,太郎,山口支店,工事部,taro@example.jp\n,佐藤,花子,,,\n1002,鈴木,次郎,,,\n")

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, repo.batched, 1)
	require.Len(t, repo.batched[0], 2)
	assert.Equal(t, "1001", repo.batched[0][0].Code())
	assert.Equal(t, "山田 太郎", repo.batched[0][0].DisplayName())
}

func TestEmployeeService_ImportCSVEmptyInputIsNoOp(t *testing.T) {
	repo := newMockEmployeeRepo()
	svc := NewEmployeeService(repo, &mockUnassigner{}, &stubPublisher{})

	count, err := svc.ImportCSV(txContext(), "")

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, repo.batched)
}

func TestEmployeeService_BulkSaveAbortsOnDuplicateCodes(t *testing.T) {
	repo := newMockEmployeeRepo()
	svc := NewEmployeeService(repo, &mockUnassigner{}, &stubPublisher{})

	_, err := svc.BulkSave(txContext(), []*employee.BulkRowDTO{
		{ID: "1001", Code: "1001", FamilyName: "山田"},
		{ID: "new_abc", Code: "1001", FamilyName: "鈴木"},
	})

	require.ErrorIs(t, err, ErrDuplicateCodes)
	assert.Empty(t, repo.created)
	assert.Empty(t, repo.updated)
}

func TestEmployeeService_BulkSaveInsertsNewRowsAndUpdatesExisting(t *testing.T) {
	repo := newMockEmployeeRepo()
	repo.employees["1001"] = employee.New("1001", "山田", "太郎", "", "", "")
	svc := NewEmployeeService(repo, &mockUnassigner{}, &stubPublisher{})

	count, err := svc.BulkSave(txContext(), []*employee.BulkRowDTO{
		{ID: "1001", Code: "1001", FamilyName: "山田", GivenName: "太郎", Office: "山口支店"},
		{ID: "new_1a2b", Code: "2002", FamilyName: "佐藤", GivenName: "花子"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "2002", repo.created[0].Code())
	require.Len(t, repo.updated, 1)
	assert.Equal(t, "1001", repo.updated[0].Code())
	assert.Equal(t, "山口支店", repo.updated[0].Office())
}
