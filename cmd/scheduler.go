package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/university-directory/internal/scheduler"
	universityPostgres "github.com/frahmantamala/university-directory/internal/university/postgres"
	userPostgres "github.com/frahmantamala/university-directory/internal/user/postgres"
	"github.com/frahmantamala/university-directory/pkg/logger"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// schedulerCmd runs the maintenance jobs without the HTTP server, for
// deployments that want a single scheduler instance beside many API pods.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the maintenance job scheduler",
	Long:  `Run the cron-style maintenance jobs (stale account sweep, stats snapshots) as a standalone process.`,
	Run: func(cmd *cobra.Command, args []string) {
		startScheduler()
	},
}

func startScheduler() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open gorm: %v\n", err)
		os.Exit(1)
	}

	manager, err := scheduler.NewManager(config.Scheduler.Timezone, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create scheduler: %v\n", err)
		os.Exit(1)
	}

	jobs := scheduler.NewJobs(
		userPostgres.NewRepository(gormDB),
		universityPostgres.NewRepository(gormDB),
		config.Scheduler.StaleAccountAge,
		lg,
	)
	if err := jobs.RegisterAll(manager, config.Scheduler); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register jobs: %v\n", err)
		os.Exit(1)
	}

	if err := manager.StartAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start scheduler: %v\n", err)
		os.Exit(1)
	}

	lg.Info("scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	lg.Info("received signal, shutting down scheduler", "signal", sig)

	manager.StopAll()
	if err := db.Close(); err != nil {
		lg.Error("database close error", "error", err)
	}
	lg.Info("scheduler shutdown complete")
}
