package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is the unit of scheduled work. Errors are logged, never fatal.
type JobFunc func() error

type job struct {
	name    string
	spec    string
	fn      JobFunc
	entryID cron.EntryID
	running bool
}

// JobStatus is the snapshot reported for one registered job.
type JobStatus struct {
	Name    string     `json:"name"`
	Spec    string     `json:"spec"`
	Running bool       `json:"running"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

// Manager owns the cron runner and a registry of named jobs. Jobs can be
// started and stopped individually while the runner stays up.
type Manager struct {
	mu      sync.Mutex
	cron    *cron.Cron
	jobs    map[string]*job
	logger  *slog.Logger
	started bool
}

func NewManager(timezone string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	return &Manager{
		cron:   cron.New(cron.WithLocation(loc)),
		jobs:   make(map[string]*job),
		logger: logger,
	}, nil
}

// Register adds a named job without scheduling it. Start activates it.
func (m *Manager) Register(name, spec string, fn JobFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}
	m.jobs[name] = &job{name: name, spec: spec, fn: fn}
	return nil
}

// Start schedules one registered job. A running job is left alone.
func (m *Manager) Start(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(name)
}

func (m *Manager) startLocked(name string) error {
	j, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job %q not registered", name)
	}
	if j.running {
		return nil
	}

	entryID, err := m.cron.AddFunc(j.spec, m.wrap(j))
	if err != nil {
		return fmt.Errorf("schedule job %q: %w", name, err)
	}
	j.entryID = entryID
	j.running = true
	m.logger.Info("job scheduled", "job", name, "spec", j.spec)
	return nil
}

// Stop unschedules one job without removing its registration.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job %q not registered", name)
	}
	if !j.running {
		return nil
	}

	m.cron.Remove(j.entryID)
	j.running = false
	m.logger.Info("job unscheduled", "job", name)
	return nil
}

// Remove stops a job and drops it from the registry.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job %q not registered", name)
	}
	if j.running {
		m.cron.Remove(j.entryID)
	}
	delete(m.jobs, name)
	return nil
}

// StartAll schedules every registered job and starts the runner.
func (m *Manager) StartAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name := range m.jobs {
		if err := m.startLocked(name); err != nil {
			return err
		}
	}
	if !m.started {
		m.cron.Start()
		m.started = true
		m.logger.Info("scheduler started", "jobs", len(m.jobs))
	}
	return nil
}

// StopAll halts the runner and waits for in-flight runs to finish.
func (m *Manager) StopAll() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	for _, j := range m.jobs {
		if j.running {
			m.cron.Remove(j.entryID)
			j.running = false
		}
	}
	m.started = false
	m.mu.Unlock()

	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("scheduler stopped")
}

// Status lists every registered job with its schedule state.
func (m *Manager) Status() []JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	statuses := make([]JobStatus, 0, len(m.jobs))
	for _, j := range m.jobs {
		st := JobStatus{Name: j.name, Spec: j.spec, Running: j.running}
		if j.running {
			entry := m.cron.Entry(j.entryID)
			if !entry.Next.IsZero() {
				next := entry.Next
				st.NextRun = &next
			}
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// RunNow executes a registered job immediately, outside its schedule.
func (m *Manager) RunNow(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q not registered", name)
	}
	m.wrap(j)()
	return nil
}

func (m *Manager) wrap(j *job) func() {
	return func() {
		start := time.Now()
		m.logger.Info("job run started", "job", j.name)
		if err := j.fn(); err != nil {
			m.logger.Error("job run failed", "job", j.name, "error", err, "duration", time.Since(start))
			return
		}
		m.logger.Info("job run finished", "job", j.name, "duration", time.Since(start))
	}
}
