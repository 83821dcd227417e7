package service

import (
	"time"

	"github.com/locvowork/sheetmap/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

// SampleReport is a small fixed report used when no database is available.
func SampleReport(now time.Time) domain.EmployeeReport {
	details := []domain.EmployeeDetail{
		{
			Employee: domain.Employee{EmpNo: 10001, BirthDate: date(1953, 9, 2), FirstName: "Georgi", LastName: "Facello", Gender: "M", HireDate: date(1986, 6, 26)},
			Salary:   ptr(int64(88958)),
			Title:    ptr("Senior Engineer"),
			DeptName: "Development",
		},
		{
			Employee: domain.Employee{EmpNo: 10002, BirthDate: date(1964, 6, 2), FirstName: "Bezalel", LastName: "Simmel", Gender: "F", HireDate: date(1985, 11, 21)},
			Salary:   ptr(int64(72527)),
			Title:    ptr("Staff"),
			DeptName: "Sales",
		},
		{
			Employee:   domain.Employee{EmpNo: 10003, BirthDate: date(1959, 12, 3), FirstName: "Parto", LastName: "Bamford", Gender: "M", HireDate: date(1986, 8, 28)},
			DeptName:   "Production",
			Terminated: true,
		},
	}
	history := []domain.DeptEmp{
		{EmpNo: 10001, DeptNo: "d005", DeptName: "Development", FromDate: date(1986, 6, 26), ToDate: domain.OpenEndedDate},
		{EmpNo: 10002, DeptNo: "d007", DeptName: "Sales", FromDate: date(1996, 8, 3), ToDate: domain.OpenEndedDate},
		{EmpNo: 10003, DeptNo: "d004", DeptName: "Production", FromDate: date(1995, 12, 3), ToDate: date(2001, 5, 1)},
	}
	return NewEmployeeReport(now, details, history)
}
