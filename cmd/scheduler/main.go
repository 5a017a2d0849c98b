package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/installment-engine/internal/config"
	"github.com/segyhp/installment-engine/internal/logger"
	"github.com/segyhp/installment-engine/internal/notifier"
	"github.com/segyhp/installment-engine/internal/repository"
	"github.com/segyhp/installment-engine/internal/scheduler"
	"github.com/segyhp/installment-engine/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 5 * time.Minute

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.New(cfg.Logging)
	log.Info("Starting installment scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// the scheduler never serves invoice views, so it runs without the cache
	billingService := service.NewBillingService(
		repository.NewCardRepository(db),
		repository.NewPurchaseRepository(db),
		nil,
		cfg,
		log,
	)
	jobs := scheduler.NewJobs(billingService, notifier.New(cfg.Notifier, log), log, cfg.Billing.ReminderDaysAhead)

	cronLogger := cron.PrintfLogger(log)
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(cfg.Scheduler.Location()),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	// Schedule tasks
	if err := setupCronJobs(c, cfg, jobs, log); err != nil {
		log.Fatalf("Failed to schedule jobs: %v", err)
	}

	c.Start()
	log.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, jobs *scheduler.Jobs, log *logrus.Logger) error {
	if _, err := c.AddFunc(cfg.Scheduler.ReminderSpec, runJob(log, "installment reminders", jobs.SendReminders)); err != nil {
		return err
	}
	if _, err := c.AddFunc(cfg.Scheduler.CycleSpec, runJob(log, "card cycle report", jobs.ReportCycles)); err != nil {
		return err
	}
	return nil
}

func runJob(log *logrus.Logger, name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		entry := log.WithField("job", name)
		entry.Info("Running job")
		if err := job(ctx); err != nil {
			entry.WithError(err).Error("Job failed")
			return
		}
		entry.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Job finished")
	}
}
