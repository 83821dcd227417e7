package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/sheetmap/internal/domain"
	"github.com/locvowork/sheetmap/internal/logger"
	"github.com/locvowork/sheetmap/internal/service"
	"github.com/locvowork/sheetmap/internal/service/serviceutils"
)

const maxReportRows = 10000

type ReportHandler struct {
	svc      service.ReportService
	fileName string
}

func NewReportHandler(svc service.ReportService, fileName string) *ReportHandler {
	if fileName == "" {
		fileName = "employees"
	}
	return &ReportHandler{svc: svc, fileName: fileName}
}

func (h *ReportHandler) HealthHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "OK", nil)
}

// ExportEmployeesHandler streams the employee workbook. Supports ?dept=, ?limit= and ?offset=.
func (h *ReportHandler) ExportEmployeesHandler(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid query parameters", err)
	}

	ctx := c.Request().Context()
	exp, err := h.svc.ExportEmployees(ctx, filter)
	if err != nil {
		if errors.Is(err, service.ErrNoRepository) {
			return serviceutils.ResponseError(c, http.StatusServiceUnavailable, "Employee database is not configured", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate employee report", err)
	}

	if err := exp.Response(c.Response(), h.fileName); err != nil {
		logger.ErrorLog(ctx, "failed to stream employee report: %v", err)
		return err
	}
	return nil
}

func (h *ReportHandler) ExportSampleHandler(c echo.Context) error {
	ctx := c.Request().Context()
	exp, err := h.svc.ExportSample(ctx)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate sample report", err)
	}

	if err := exp.Response(c.Response(), "sample_"+h.fileName); err != nil {
		logger.ErrorLog(ctx, "failed to stream sample report: %v", err)
		return err
	}
	return nil
}

// parseFilter reads the report filter; limit is capped at maxReportRows.
func parseFilter(c echo.Context) (domain.EmployeeFilter, error) {
	filter := domain.EmployeeFilter{DeptNo: c.QueryParam("dept"), Limit: maxReportRows}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return filter, errors.New("limit must be a positive integer")
		}
		if limit < maxReportRows {
			filter.Limit = limit
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, errors.New("offset must be a non-negative integer")
		}
		filter.Offset = offset
	}
	return filter, nil
}
