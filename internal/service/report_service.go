package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/locvowork/sheetmap/internal/domain"
	"github.com/locvowork/sheetmap/internal/logger"
	"github.com/locvowork/sheetmap/pkg/sheetmap"
)

var ErrNoRepository = errors.New("employee repository is not configured")

// ReportService produces employee workbooks ready to be written out.
type ReportService interface {
	ExportEmployees(ctx context.Context, filter domain.EmployeeFilter) (*sheetmap.Exporter, error)
	ExportSample(ctx context.Context) (*sheetmap.Exporter, error)
}

// ReportOptions configures how report workbooks are rendered.
type ReportOptions struct {
	Location *time.Location
	Presets  sheetmap.StylePresets
	Loader   sheetmap.TypeLoader
	Now      func() time.Time
}

type reportService struct {
	repo domain.EmployeeRepository
	opts ReportOptions
}

// NewReportService creates a ReportService. repo may be nil, in which case
// only the sample report is available.
func NewReportService(repo domain.EmployeeRepository, opts ReportOptions) (ReportService, error) {
	if opts.Presets == nil {
		presets, err := domain.DefaultStylePresets()
		if err != nil {
			return nil, err
		}
		opts.Presets = presets
	}
	if opts.Loader == nil {
		opts.Loader = domain.NewRegistry()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &reportService{repo: repo, opts: opts}, nil
}

func (s *reportService) ExportEmployees(ctx context.Context, filter domain.EmployeeFilter) (*sheetmap.Exporter, error) {
	report, err := s.BuildEmployeeReport(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, report)
}

func (s *reportService) ExportSample(ctx context.Context) (*sheetmap.Exporter, error) {
	return s.generate(ctx, SampleReport(s.opts.Now()))
}

// BuildEmployeeReport loads employees and their department history.
func (s *reportService) BuildEmployeeReport(ctx context.Context, filter domain.EmployeeFilter) (domain.EmployeeReport, error) {
	if s.repo == nil {
		return domain.EmployeeReport{}, ErrNoRepository
	}

	details, err := s.repo.ListDetails(ctx, filter)
	if err != nil {
		return domain.EmployeeReport{}, fmt.Errorf("failed to list employees: %w", err)
	}

	empNos := make([]int, len(details))
	for i, d := range details {
		empNos[i] = d.EmpNo
	}
	history, err := s.repo.DepartmentHistory(ctx, empNos)
	if err != nil {
		return domain.EmployeeReport{}, fmt.Errorf("failed to load department history: %w", err)
	}

	logger.DebugLog(ctx, "building employee report with %d employees and %d assignments", len(details), len(history))
	return NewEmployeeReport(s.opts.Now(), details, history), nil
}

func (s *reportService) generate(ctx context.Context, report domain.EmployeeReport) (*sheetmap.Exporter, error) {
	exp := sheetmap.NewExporter(report,
		sheetmap.WithTypeLoader(s.opts.Loader),
		sheetmap.WithLocation(s.opts.Location),
		sheetmap.WithStylePresets(s.opts.Presets),
	)
	if _, err := exp.Generate(ctx); err != nil {
		return nil, fmt.Errorf("failed to generate workbook: %w", err)
	}
	return exp, nil
}

// NewEmployeeReport maps repository rows onto the report layout and computes
// the summary. The average only counts employees with a current salary.
func NewEmployeeReport(now time.Time, details []domain.EmployeeDetail, history []domain.DeptEmp) domain.EmployeeReport {
	report := domain.EmployeeReport{
		Employees:   make([]domain.EmployeeRow, 0, len(details)),
		Departments: make([]domain.DepartmentRow, 0, len(history)),
	}

	var total int64
	var paid int64
	for _, d := range details {
		var hiredAt int64
		if !d.HireDate.IsZero() {
			hiredAt = d.HireDate.UnixMilli()
		}
		report.Employees = append(report.Employees, domain.EmployeeRow{
			EmpNo:      d.EmpNo,
			FirstName:  d.FirstName,
			LastName:   d.LastName,
			Gender:     d.Gender,
			BirthDate:  d.BirthDate,
			HiredAt:    hiredAt,
			Title:      d.Title,
			Department: d.DeptName,
			Salary:     d.Salary,
			Active:     !d.Terminated,
		})
		if d.Salary != nil {
			total += *d.Salary
			paid++
		}
	}
	for _, h := range history {
		report.Departments = append(report.Departments, domain.DepartmentRow{
			EmpNo:    h.EmpNo,
			DeptNo:   h.DeptNo,
			DeptName: h.DeptName,
			From:     h.FromDate,
			To:       h.ToDate,
		})
	}

	report.Summary = domain.ReportSummary{
		GeneratedAt: now,
		Headcount:   len(details),
		TotalSalary: total,
	}
	if paid > 0 {
		report.Summary.AverageSalary = decimal.NewFromInt(total).Div(decimal.NewFromInt(paid))
	}
	return report
}
