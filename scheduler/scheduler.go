package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/yeremiapane/projectflow/realtime"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

// ErrSweepRunning is returned by RunNow while another sweep is in progress.
var ErrSweepRunning = errors.New("status sweep already running")

const sweepTimeout = 10 * time.Minute

// Reconciler is the sweep the scheduler drives.
type Reconciler interface {
	Run(ctx context.Context) (services.ReconcileResult, error)
}

// Broadcaster announces finished sweeps to connected clients.
type Broadcaster interface {
	Broadcast(msg realtime.Message)
}

// Manager owns the cron scheduler and makes sure scheduled and manual
// sweeps never overlap.
type Manager struct {
	scheduler  gocron.Scheduler
	reconciler Reconciler
	hub        Broadcaster
	mu         sync.Mutex
	last       atomic.Pointer[services.ReconcileResult]
}

func NewManager(reconciler Reconciler, hub Broadcaster) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Manager{scheduler: s, reconciler: reconciler, hub: hub}, nil
}

// RegisterOverdueJob schedules the sweep on a cron expression ("0 * * * *"
// runs at the top of every hour). A tick that fires while a sweep is still
// running is skipped.
func (m *Manager) RegisterOverdueJob(cron string) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cron, false),
		gocron.NewTask(m.scheduledRun),
		gocron.WithName("overdue_status_sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

func (m *Manager) Start() {
	m.scheduler.Start()
	utils.InfoLogger.Println("Scheduler started successfully")
}

func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		utils.ErrorLogger.Printf("Failed to shutdown scheduler: %v", err)
	}
	utils.InfoLogger.Println("Scheduler stopped")
}

func (m *Manager) scheduledRun() {
	if !m.mu.TryLock() {
		utils.InfoLogger.Println("Skipping scheduled status sweep: previous sweep still running")
		return
	}
	defer m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	if _, err := m.sweep(ctx); err != nil {
		utils.ErrorLogger.Printf("Scheduled status sweep failed: %v", err)
	}
}

// RunNow performs a sweep immediately, or returns ErrSweepRunning when one
// is already in progress.
func (m *Manager) RunNow(ctx context.Context) (services.ReconcileResult, error) {
	if !m.mu.TryLock() {
		return services.ReconcileResult{}, ErrSweepRunning
	}
	defer m.mu.Unlock()
	return m.sweep(ctx)
}

// LastResult returns the outcome of the most recent finished sweep, if any.
// It does not wait for a sweep in progress.
func (m *Manager) LastResult() *services.ReconcileResult {
	last := m.last.Load()
	if last == nil {
		return nil
	}
	r := *last
	return &r
}

// sweep must be called with mu held.
func (m *Manager) sweep(ctx context.Context) (services.ReconcileResult, error) {
	result, err := m.reconciler.Run(ctx)
	m.last.Store(&result)
	if m.hub != nil && (result.ProjectsUpdated > 0 || result.TasksUpdated > 0) {
		m.hub.Broadcast(realtime.Message{Event: realtime.EventStatusSweep, Data: result})
	}
	return result, err
}
