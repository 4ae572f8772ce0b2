package main

import (
	"context"
	"os"
	"time"

	"household/internal/amqp"
	"household/internal/backend"
	"household/internal/cli"
	"household/internal/log"
	"household/internal/metrics"
	"household/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentReminder)

	logger.Info("Starting reminder-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to publish reminders", log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	// Reminders are read from the durable store; events are not needed here.
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	backendCfg.AMQPURL = ""
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend)).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err)
		os.Exit(1)
	}
	defer res.Cleanup()

	publisher, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPReminderQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer publisher.Close()

	thresholds := services.Thresholds{
		DueSoonDays:       cfg.DueSoonDays,
		StalePasswordDays: cfg.StalePasswordDays,
	}
	if err := thresholds.Validate(); err != nil {
		logger.Error("Invalid thresholds", log.FieldError, err)
		os.Exit(1)
	}
	m := metrics.New()
	processor := services.NewReminderProcessor(res.Store, publisher, thresholds, m)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, cli.ServeMetrics(logger, cfg.MetricsAddr, m))

	logger.Info("Reminder processor configured",
		"interval", cfg.ReminderInterval,
		"queue", cfg.AMQPReminderQueue,
		"backend", cfg.DataBackend)

	run := func(now time.Time) {
		count, err := processor.ProcessReminders(ctx, now)
		if err != nil {
			logger.Error("Reminder run failed", log.FieldError, err)
			return
		}
		logger.Info("Reminder run complete",
			"reminders_sent", count,
			"next_check", now.Add(cfg.ReminderInterval).Format(time.Kitchen))
	}

	run(time.Now())

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			cli.WaitForShutdown(ctx, done)
			logger.Info("Reminder-worker shutdown complete")
			return
		case now := <-ticker.C:
			run(now)
		}
	}
}
