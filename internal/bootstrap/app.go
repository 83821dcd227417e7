package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/sheetmap/internal/config"
	"github.com/locvowork/sheetmap/internal/database"
	"github.com/locvowork/sheetmap/internal/domain"
	"github.com/locvowork/sheetmap/internal/handler"
	"github.com/locvowork/sheetmap/internal/logger"
	"github.com/locvowork/sheetmap/internal/repository"
	"github.com/locvowork/sheetmap/internal/service"
	"github.com/locvowork/sheetmap/pkg/sheetmap"
)

type App struct {
	Echo *echo.Echo
	DB   *sql.DB
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	// Initialize logging
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	db, err := database.NewPostgresDB(ctx, DatabaseConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	// Initialize dependencies
	reportSvc, err := NewReportService(repository.NewEmployeeRepository(db))
	if err != nil {
		return fmt.Errorf("failed to initialize report service: %w", err)
	}
	reportHandler := handler.NewReportHandler(reportSvc, config.DefaultEnvConfig.REPORT_FILE_NAME)

	a.RegisterMiddlewares()
	a.RegisterRoutes(reportHandler)

	return nil
}

// DatabaseConfig maps the loaded environment onto the connection settings.
func DatabaseConfig() database.Config {
	return database.Config{
		Host:            config.DefaultEnvConfig.DB_HOST,
		Port:            config.DefaultEnvConfig.DB_PORT,
		User:            config.DefaultEnvConfig.DB_USER,
		Password:        config.DefaultEnvConfig.DB_PASSWORD,
		DBName:          config.DefaultEnvConfig.DB_NAME,
		SSLMode:         config.DefaultEnvConfig.DB_SSL_MODE,
		MaxOpenConns:    config.DefaultEnvConfig.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    config.DefaultEnvConfig.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: config.DefaultEnvConfig.DB_CONN_MAX_LIFETIME,
	}
}

// NewReportService wires a report service from the loaded environment.
// Presets from REPORT_STYLE_PRESETS override the built-in ones by name.
func NewReportService(repo domain.EmployeeRepository) (service.ReportService, error) {
	presets, err := domain.DefaultStylePresets()
	if err != nil {
		return nil, err
	}
	if path := config.DefaultEnvConfig.REPORT_STYLE_PRESETS; path != "" {
		custom, err := sheetmap.LoadStylePresetsFile(path)
		if err != nil {
			return nil, err
		}
		for name, d := range custom {
			presets[name] = d
		}
	}

	return service.NewReportService(repo, service.ReportOptions{
		Location: config.DefaultEnvConfig.ReportLocation(),
		Presets:  presets,
		Loader:   domain.NewRegistry(),
	})
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(requestLogger)
}

// requestLogger attaches a logger tagged with the request id to the request
// context, so report generation logs can be correlated.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := logger.WithLogger(req.Context(), map[string]interface{}{
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			"path":       req.URL.Path,
		})
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func (a *App) RegisterRoutes(reportHandler *handler.ReportHandler) {
	a.Echo.GET("/health", reportHandler.HealthHandler)

	reportGroup := a.Echo.Group("/reports")
	reportGroup.GET("/employees", reportHandler.ExportEmployeesHandler)
	reportGroup.GET("/sample", reportHandler.ExportSampleHandler)
}

func (a *App) Run() error {
	if a.DB != nil {
		defer a.DB.Close()
	}
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
