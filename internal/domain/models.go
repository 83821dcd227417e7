package domain

import "time"

// OpenEndedDate marks rows that are still current in the employees schema.
var OpenEndedDate = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// Employee represents the employees table
type Employee struct {
	EmpNo     int       `json:"emp_no" db:"emp_no"`
	BirthDate time.Time `json:"birth_date" db:"birth_date"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Gender    string    `json:"gender" db:"gender"`
	HireDate  time.Time `json:"hire_date" db:"hire_date"`
}

// EmployeeDetail is an employee joined with the current salary, title and department.
// Salary and Title are nil when no current row exists.
type EmployeeDetail struct {
	Employee
	Salary     *int64  `json:"salary,omitempty" db:"salary"`
	Title      *string `json:"title,omitempty" db:"title"`
	DeptName   string  `json:"dept_name" db:"dept_name"`
	Terminated bool    `json:"terminated" db:"terminated"`
}

// DeptEmp represents the dept_emp table joined with the department name
type DeptEmp struct {
	EmpNo    int       `json:"emp_no" db:"emp_no"`
	DeptNo   string    `json:"dept_no" db:"dept_no"`
	DeptName string    `json:"dept_name" db:"dept_name"`
	FromDate time.Time `json:"from_date" db:"from_date"`
	ToDate   time.Time `json:"to_date" db:"to_date"`
}
