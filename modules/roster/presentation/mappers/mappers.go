package mappers

import (
	"github.com/yamato-denko/koutei/modules/roster/domain/aggregates/employee"
	"github.com/yamato-denko/koutei/modules/roster/presentation/viewmodels"
)

func EmployeeToViewModel(e employee.Employee) viewmodels.Employee {
	return viewmodels.Employee{
		Code:       e.Code(),
		FamilyName: e.FamilyName(),
		GivenName:  e.GivenName(),
		Office:     e.Office(),
		Department: e.Department(),
		Email:      e.Email(),
	}
}

func EmployeesToViewModels(employees []employee.Employee) []viewmodels.Employee {
	out := make([]viewmodels.Employee, 0, len(employees))
	for _, e := range employees {
		out = append(out, EmployeeToViewModel(e))
	}
	return out
}
