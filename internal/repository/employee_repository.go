package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/locvowork/sheetmap/internal/domain"
	"github.com/locvowork/sheetmap/internal/repository/builder"
)

const openEnded = "'9999-01-01'"

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository
func NewEmployeeRepository(db *sql.DB) domain.EmployeeRepository {
	return &employeeRepository{db: db}
}

// listDetailsQuery joins each employee with the current salary, title and
// latest department. Terminated employees have no open-ended dept_emp row.
func listDetailsQuery(filter domain.EmployeeFilter) (string, []interface{}, error) {
	b := builder.NewSelect(
		"e.emp_no", "e.birth_date", "e.first_name", "e.last_name", "e.gender", "e.hire_date",
		"s.salary", "t.title", "COALESCE(d.dept_name, '')", "COALESCE(de.to_date <> "+openEnded+", TRUE)",
	).
		From("employees e").
		Join("LEFT", "salaries s", "s.emp_no = e.emp_no AND s.to_date = "+openEnded).
		Join("LEFT", "titles t", "t.emp_no = e.emp_no AND t.to_date = "+openEnded).
		Join("LEFT", "LATERAL (SELECT dept_no, to_date FROM dept_emp WHERE emp_no = e.emp_no ORDER BY to_date DESC LIMIT 1) de", "TRUE").
		Join("LEFT", "departments d", "d.dept_no = de.dept_no").
		OrderBy("e.emp_no ASC").
		Limit(filter.Limit).
		Offset(filter.Offset)

	if filter.DeptNo != "" {
		b.Where("de.dept_no = ?", filter.DeptNo)
	}
	return b.BuildSafe()
}

func (r *employeeRepository) ListDetails(ctx context.Context, filter domain.EmployeeFilter) ([]domain.EmployeeDetail, error) {
	query, args, err := listDetailsQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employee details: %w", err)
	}
	defer rows.Close()

	var details []domain.EmployeeDetail
	for rows.Next() {
		var (
			d      domain.EmployeeDetail
			salary sql.NullInt64
			title  sql.NullString
		)
		if err := rows.Scan(&d.EmpNo, &d.BirthDate, &d.FirstName, &d.LastName, &d.Gender, &d.HireDate,
			&salary, &title, &d.DeptName, &d.Terminated); err != nil {
			return nil, err
		}
		if salary.Valid {
			d.Salary = &salary.Int64
		}
		if title.Valid {
			d.Title = &title.String
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func departmentHistoryQuery(empNos []int) (string, []interface{}, error) {
	ids := make(pq.Int64Array, len(empNos))
	for i, n := range empNos {
		ids[i] = int64(n)
	}
	return builder.NewSelect("de.emp_no", "de.dept_no", "d.dept_name", "de.from_date", "de.to_date").
		From("dept_emp de").
		Join("INNER", "departments d", "d.dept_no = de.dept_no").
		Where("de.emp_no = ANY(?)", ids).
		OrderBy("de.emp_no ASC").
		OrderBy("de.from_date ASC").
		BuildSafe()
}

func (r *employeeRepository) DepartmentHistory(ctx context.Context, empNos []int) ([]domain.DeptEmp, error) {
	if len(empNos) == 0 {
		return nil, nil
	}
	query, args, err := departmentHistoryQuery(empNos)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list department history: %w", err)
	}
	defer rows.Close()

	var history []domain.DeptEmp
	for rows.Next() {
		var de domain.DeptEmp
		if err := rows.Scan(&de.EmpNo, &de.DeptNo, &de.DeptName, &de.FromDate, &de.ToDate); err != nil {
			return nil, err
		}
		history = append(history, de)
	}
	return history, rows.Err()
}
