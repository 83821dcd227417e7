package domain

import "context"

// EmployeeFilter defines criteria for listing employees
type EmployeeFilter struct {
	DeptNo string
	Limit  int
	Offset int
}

// EmployeeRepository defines the read access the employee report needs
type EmployeeRepository interface {
	ListDetails(ctx context.Context, filter EmployeeFilter) ([]EmployeeDetail, error)
	DepartmentHistory(ctx context.Context, empNos []int) ([]DeptEmp, error)
}
