package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeReport is the root of the employee workbook: a one-row summary
// sheet, one row per employee, and one row per department assignment.
type EmployeeReport struct {
	Summary     ReportSummary   `xlsx:"recursive"`
	Employees   []EmployeeRow   `xlsx:"recursive"`
	Departments []DepartmentRow `xlsx:"recursive"`
}

type ReportSummary struct {
	Title         string          `xlsx:"column=0,sheet=summary" xlsxstyle:"preset=header,supplier=domain.Converters#ReportTitle,autosize"`
	GeneratedAt   time.Time       `xlsx:"column=1,sheet=summary,datetime" xlsxstyle:"preset=header,name=Generated at,autosize"`
	Headcount     int             `xlsx:"column=2,sheet=summary" xlsxstyle:"preset=header,type=numeric,name=Headcount"`
	TotalSalary   int64           `xlsx:"column=3,sheet=summary" xlsxstyle:"preset=header,type=numeric,name=Total salary,autosize"`
	AverageSalary decimal.Decimal `xlsx:"column=4,sheet=summary" xlsxstyle:"preset=header,type=numeric,name=Average salary,autosize"`
}

type EmployeeRow struct {
	EmpNo      int       `xlsx:"column=0,sheet=employees" xlsxstyle:"preset=header,name=Emp no"`
	FirstName  string    `xlsx:"column=1,sheet=employees" xlsxstyle:"preset=header,name=First name,autosize"`
	LastName   string    `xlsx:"column=2,sheet=employees" xlsxstyle:"preset=header,name=Last name,autosize"`
	Gender     string    `xlsx:"column=3,sheet=employees,converter=domain.Converters#Gender" xlsxstyle:"preset=header,name=Gender"`
	BirthDate  time.Time `xlsx:"column=4,sheet=employees,datetime" xlsxstyle:"preset=header,name=Birth date,autosize"`
	HiredAt    int64     `xlsx:"column=5,sheet=employees,datetime" xlsxstyle:"preset=header,name=Hired at,autosize"`
	Title      *string   `xlsx:"column=6,sheet=employees" xlsxstyle:"preset=header,name=Title,autosize"`
	Department string    `xlsx:"column=7,sheet=employees" xlsxstyle:"preset=header,name=Department,autosize"`
	Salary     *int64    `xlsx:"column=8,sheet=employees,converter=domain.Converters#Amount" xlsxstyle:"preset=money,name=Salary"`
	Active     bool      `xlsx:"column=9,sheet=employees" xlsxstyle:"preset=header,type=boolean,name=Active"`
}

type DepartmentRow struct {
	EmpNo    int       `xlsx:"column=0,sheet=departments" xlsxstyle:"preset=header,name=Emp no"`
	DeptNo   string    `xlsx:"column=1,sheet=departments" xlsxstyle:"preset=header,name=Dept no"`
	DeptName string    `xlsx:"column=2,sheet=departments" xlsxstyle:"preset=header,name=Department,autosize"`
	From     time.Time `xlsx:"column=3,sheet=departments,datetime" xlsxstyle:"preset=header,name=From,autosize"`
	To       time.Time `xlsx:"column=4,sheet=departments,datetime,converter=domain.Converters#OpenEnded" xlsxstyle:"preset=header,name=To,autosize"`
}

// Converters holds the content converters and column name suppliers the
// report tags refer to as domain.Converters#<Method>.
type Converters struct{}

func (Converters) ReportTitle() string {
	return "Employee report"
}

// Gender expands the single-letter codes stored in the employees table.
func (Converters) Gender(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch strings.ToUpper(s) {
	case "M":
		return "Male"
	case "F":
		return "Female"
	}
	return s
}

// Amount renders a missing salary as zero so numeric columns stay parseable.
func (Converters) Amount(v interface{}) interface{} {
	if s, ok := v.(string); ok && s == "" {
		return "0"
	}
	return v
}

// OpenEnded blanks the 9999-01-01 sentinel so it renders as the zero placeholder.
func (Converters) OpenEnded(v interface{}) interface{} {
	if t, ok := v.(time.Time); ok && t.Equal(OpenEndedDate) {
		return time.Time{}
	}
	return v
}
