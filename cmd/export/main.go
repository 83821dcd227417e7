// Command export writes the employee report to an xlsx file without
// starting the HTTP server. With -sample it does not touch the database.
package main

import (
	"bufio"
	"context"
	"flag"
	"os"

	"github.com/locvowork/sheetmap/internal/bootstrap"
	"github.com/locvowork/sheetmap/internal/config"
	"github.com/locvowork/sheetmap/internal/database"
	"github.com/locvowork/sheetmap/internal/domain"
	"github.com/locvowork/sheetmap/internal/logger"
	"github.com/locvowork/sheetmap/internal/repository"
	"github.com/locvowork/sheetmap/pkg/sheetmap"
)

func main() {
	out := flag.String("o", "employees.xlsx", "output file")
	sample := flag.Bool("sample", false, "export the built-in sample report")
	dept := flag.String("dept", "", "only employees currently in this department")
	limit := flag.Int("limit", 0, "maximum number of employees")
	offset := flag.Int("offset", 0, "number of employees to skip")
	flag.Parse()

	ctx := context.Background()

	if err := config.LoadEnvConfig(); err != nil {
		panic(err)
	}
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL)

	filter := domain.EmployeeFilter{DeptNo: *dept, Limit: *limit, Offset: *offset}
	if err := run(ctx, *out, *sample, filter); err != nil {
		logger.ErrorLog(ctx, "Failed to export report: %v", err)
		os.Exit(1)
	}
	logger.InfoLog(ctx, "Report written to %s", *out)
}

func run(ctx context.Context, out string, sample bool, filter domain.EmployeeFilter) error {
	var repo domain.EmployeeRepository
	if !sample {
		db, err := database.NewPostgresDB(ctx, bootstrap.DatabaseConfig())
		if err != nil {
			return err
		}
		defer db.Close()
		repo = repository.NewEmployeeRepository(db)
	}

	svc, err := bootstrap.NewReportService(repo)
	if err != nil {
		return err
	}

	var exp *sheetmap.Exporter
	if sample {
		exp, err = svc.ExportSample(ctx)
	} else {
		exp, err = svc.ExportEmployees(ctx, filter)
	}
	if err != nil {
		return err
	}
	return write(exp, out)
}

func write(exp *sheetmap.Exporter, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = exp.WriteTo(bufio.NewWriter(f))
	if err != nil {
		return err
	}
	return f.Sync()
}
