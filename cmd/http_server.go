package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wkusuma/customs-case-management/internal"
	"github.com/wkusuma/customs-case-management/internal/accesscontrol"
	"github.com/wkusuma/customs-case-management/internal/admin"
	"github.com/wkusuma/customs-case-management/internal/auth"
	authPostgres "github.com/wkusuma/customs-case-management/internal/auth/postgres"
	"github.com/wkusuma/customs-case-management/internal/cases"
	casesPostgres "github.com/wkusuma/customs-case-management/internal/cases/postgres"
	"github.com/wkusuma/customs-case-management/internal/core/events"
	"github.com/wkusuma/customs-case-management/internal/metrics"
	"github.com/wkusuma/customs-case-management/internal/template"
	templatePostgres "github.com/wkusuma/customs-case-management/internal/template/postgres"
	"github.com/wkusuma/customs-case-management/internal/transport"
	"github.com/wkusuma/customs-case-management/internal/transport/rest"
	"github.com/wkusuma/customs-case-management/internal/transport/swagger"
	"github.com/wkusuma/customs-case-management/internal/user"
	userPostgres "github.com/wkusuma/customs-case-management/internal/user/postgres"
	"github.com/wkusuma/customs-case-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

const openAPIPath = "./api/openapi.yml"

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	registry, err := accesscontrol.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load module registry: %w", err)
	}

	// A malformed OpenAPI document should fail deployment, not surface later
	// as a broken Swagger UI. A missing file only loses the UI.
	if _, statErr := os.Stat(openAPIPath); statErr == nil {
		if err := swagger.ValidateSpec(context.Background(), openAPIPath); err != nil {
			return nil, err
		}
	} else {
		lg.Warn("openapi document not found; swagger UI disabled", "path", openAPIPath)
	}

	bus := events.NewEventBus(lg)
	metrics.RegisterSubscribers(bus)

	baseHandler := transport.NewBaseHandler(lg)

	authRepo := authPostgres.NewRepository(gormDB)
	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authService := auth.NewService(authRepo, tokenGen, bus, lg,
		config.Security.BCryptCost, config.Security.MaxFailedAttempts, config.Security.LockoutDuration)
	authHandler := auth.NewHandler(authService)

	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, registry)
	userHandler := user.NewHandler(baseHandler, userService)

	caseRepo := casesPostgres.NewCaseRepository(gormDB)
	caseService := cases.NewService(caseRepo, userService, lg)
	caseHandler := cases.NewHandler(baseHandler, caseService)

	templateRepo := templatePostgres.NewTemplateRepository(gormDB)
	templateService := template.NewService(templateRepo, lg)
	templateHandler := template.NewHandler(baseHandler, templateService)

	moduleHandler := accesscontrol.NewHandler(baseHandler, registry)

	bootstrapper := admin.NewBootstrapper(gormDB, lg,
		config.Security.AdminInitialPassword, config.Security.BCryptCost)
	adminHandler := admin.NewHandler(baseHandler, bootstrapper)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db,
		authHandler, userHandler, caseHandler, templateHandler, moduleHandler, adminHandler, lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: lg,
	}, nil
}

// initDB opens the pgx-backed connection pool used for health checks and
// migrations.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-open pool so both share one set
// of connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{})
}
