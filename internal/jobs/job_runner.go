package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/javicara/beonbike-sub000/internal/config"
	"github.com/javicara/beonbike-sub000/internal/domain"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/metrics"
	"github.com/javicara/beonbike-sub000/internal/repository/postgres"
	"github.com/javicara/beonbike-sub000/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db       *sql.DB
	store    *postgres.Store
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email    service.EmailService
	Bookings service.BookingService
	Rentals  service.RentalService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:       db,
		store:    store,
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

func (jr *JobRunner) today() domain.Date {
	return domain.DateOf(jr.now(), jr.config.Location())
}

// runWithRecovery wraps job execution with panic recovery and records the outcome.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	log := logger.WithJob(jobName)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
			metrics.JobRuns.WithLabelValues(jobName, "panic").Inc()
		}
	}()

	log.Info("Starting job")
	ctx := logger.NewContext(context.Background(), log)
	if err := jobFunc(ctx); err != nil {
		log.Error("Job failed", "error", err, "duration", time.Since(start))
		metrics.JobRuns.WithLabelValues(jobName, "failed").Inc()
		return
	}
	log.Info("Job completed", "duration", time.Since(start))
	metrics.JobRuns.WithLabelValues(jobName, "ok").Inc()
}

// jobs maps job names to their entry points for --run-once.
func (jr *JobRunner) jobs() map[string]func() {
	return map[string]func(){
		"ActivateBookings":     jr.ActivateBookings,
		"CompleteBookings":     jr.CompleteBookings,
		"SendPaymentReminders": jr.SendPaymentReminders,
		"NotifyWaitlist":       jr.NotifyWaitlist,
		"PurgeExpiredSessions": jr.PurgeExpiredSessions,
	}
}

// JobNames lists the jobs RunJob accepts, sorted.
func (jr *JobRunner) JobNames() []string {
	names := make([]string, 0, len(jr.jobs()))
	for name := range jr.jobs() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunJob runs a single job by name (for manual execution)
func (jr *JobRunner) RunJob(name string) error {
	job, ok := jr.jobs()[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	job()
	return nil
}

// RunAllDailyJobs runs the daily jobs in dependency order (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.CompleteBookings()
	jr.ActivateBookings()
	jr.NotifyWaitlist()
}
