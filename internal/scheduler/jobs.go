package scheduler

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/university-directory/internal"
	"github.com/frahmantamala/university-directory/internal/university"
	"github.com/frahmantamala/university-directory/internal/user"
)

const (
	JobStaleAccountSweep = "stale_account_sweep"
	JobDailyStats        = "daily_stats"
	JobWeeklyReport      = "weekly_report"
)

// AccountSweeper is the slice of the user store the jobs need.
type AccountSweeper interface {
	ListStaleSince(cutoff time.Time) ([]*user.User, error)
	DeactivateStaleSince(cutoff time.Time) (int64, error)
	Stats() (*user.Stats, error)
}

// DirectoryReader is the slice of the university store the jobs need.
type DirectoryReader interface {
	Stats() (*university.Stats, error)
	CountUpdatedSince(since time.Time) (int64, error)
}

// Jobs bundles the maintenance work that runs on a schedule.
type Jobs struct {
	accounts  AccountSweeper
	directory DirectoryReader
	staleAge  time.Duration
	logger    *slog.Logger
}

func NewJobs(accounts AccountSweeper, directory DirectoryReader, staleAge time.Duration, logger *slog.Logger) *Jobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &Jobs{
		accounts:  accounts,
		directory: directory,
		staleAge:  staleAge,
		logger:    logger,
	}
}

// RegisterAll wires every job into the manager with its configured spec.
func (j *Jobs) RegisterAll(m *Manager, cfg internal.SchedulerConfig) error {
	if err := m.Register(JobStaleAccountSweep, cfg.StaleAccountSweepSpec, j.StaleAccountSweep); err != nil {
		return err
	}
	if err := m.Register(JobDailyStats, cfg.DailyStatsSpec, j.DailyStats); err != nil {
		return err
	}
	return m.Register(JobWeeklyReport, cfg.WeeklyReportSpec, j.WeeklyReport)
}

// StaleAccountSweep deactivates accounts that have not signed in for the
// configured age. Deactivated users fail the refresh check on next use.
func (j *Jobs) StaleAccountSweep() error {
	cutoff := time.Now().Add(-j.staleAge)

	stale, err := j.accounts.ListStaleSince(cutoff)
	if err != nil {
		return err
	}
	for _, acc := range stale {
		j.logger.Info("deactivating stale account", "email", acc.Email, "last_login", acc.LastLogin)
	}

	n, err := j.accounts.DeactivateStaleSince(cutoff)
	if err != nil {
		return err
	}
	j.logger.Info("stale account sweep complete", "deactivated", n, "cutoff", cutoff)
	return nil
}

// DailyStats logs a snapshot of the directory so operators can track growth
// from the logs alone.
func (j *Jobs) DailyStats() error {
	userStats, err := j.accounts.Stats()
	if err != nil {
		return err
	}
	dirStats, err := j.directory.Stats()
	if err != nil {
		return err
	}
	j.logger.Info("daily stats snapshot",
		"users_total", userStats.Total,
		"users_active", userStats.Active,
		"universities_total", dirStats.Total,
		"total_enrollment", dirStats.TotalEnrollment,
	)
	return nil
}

// WeeklyReport summarizes directory activity over the past week.
func (j *Jobs) WeeklyReport() error {
	since := time.Now().AddDate(0, 0, -7)
	updated, err := j.directory.CountUpdatedSince(since)
	if err != nil {
		return err
	}
	dirStats, err := j.directory.Stats()
	if err != nil {
		return err
	}
	j.logger.Info("weekly report",
		"since", since.Format("2006-01-02"),
		"universities_updated", updated,
		"by_status", dirStats.ByStatus,
		"by_type", dirStats.ByType,
	)
	return nil
}
