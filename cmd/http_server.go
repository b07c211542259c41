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

	"github.com/frahmantamala/university-directory/internal"
	"github.com/frahmantamala/university-directory/internal/auth"
	authPostgres "github.com/frahmantamala/university-directory/internal/auth/postgres"
	"github.com/frahmantamala/university-directory/internal/scheduler"
	"github.com/frahmantamala/university-directory/internal/transport/rest"
	"github.com/frahmantamala/university-directory/internal/university"
	universityPostgres "github.com/frahmantamala/university-directory/internal/university/postgres"
	"github.com/frahmantamala/university-directory/internal/user"
	userPostgres "github.com/frahmantamala/university-directory/internal/user/postgres"
	"github.com/frahmantamala/university-directory/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
	Config    *internal.Config
	DB        *sqlx.DB
	GormDB    *gorm.DB
	Router    *chi.Mux
	Scheduler *scheduler.Manager
	Logger    *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if deps.Scheduler != nil {
		if err := deps.Scheduler.StartAll(); err != nil {
			deps.Logger.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if deps.Scheduler != nil {
			deps.Scheduler.StopAll()
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

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	authRepo := authPostgres.NewRepository(gormDB)
	userRepo := userPostgres.NewRepository(gormDB)
	universityRepo := universityPostgres.NewRepository(gormDB)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	userService := user.NewService(userRepo, config.Security.BCryptCost,
		config.Pagination.DefaultLimit, config.Pagination.MaxLimit)
	universityService := university.NewService(universityRepo,
		config.Pagination.DefaultLimit, config.Pagination.MaxLimit)

	var schedulerManager *scheduler.Manager
	if config.Scheduler.Enabled {
		schedulerManager, err = scheduler.NewManager(config.Scheduler.Timezone, lg)
		if err != nil {
			return nil, fmt.Errorf("failed to create scheduler: %w", err)
		}
		jobs := scheduler.NewJobs(userRepo, universityRepo, config.Scheduler.StaleAccountAge, lg)
		if err := jobs.RegisterAll(schedulerManager, config.Scheduler); err != nil {
			return nil, fmt.Errorf("failed to register jobs: %w", err)
		}
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterDeps{
		DB:                db.DB,
		AuthHandler:       auth.NewHandler(authService),
		UserHandler:       user.NewHandler(userService),
		UniversityHandler: university.NewHandler(universityService),
		Scheduler:         schedulerManager,
		Config:            config,
		Logger:            lg,
	})

	return &Dependencies{
		Config:    config,
		Logger:    lg,
		DB:        db,
		GormDB:    gormDB,
		Router:    router,
		Scheduler: schedulerManager,
	}, nil
}

// initDB opens the pgx stdlib connection used by both sqlx and gorm.
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
