package main

import (
	"context"
	"errors"
	"os"
	"time"

	"household/internal/amqp"
	"household/internal/backend"
	"household/internal/cli"
	"household/internal/log"
	"household/internal/metrics"
	"household/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting household-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to consume record events", log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend))

	ledger, err := factory.CreateLedger(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize ledger", log.FieldError, err)
		os.Exit(1)
	}

	// Only a durable store is shared with the server; an in-memory one
	// would hold none of its bills, so the event payload is used instead.
	var bills worker.BillGetter
	if backendCfg.Type == backend.SQLiteBackend {
		backendCfg.AMQPURL = ""
		res, err := factory.CreateBackend(context.Background(), backendCfg)
		if err != nil {
			logger.Error("Failed to initialize backend", log.FieldError, err)
			os.Exit(1)
		}
		defer res.Cleanup()
		bills = res.Store
	}

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer consumer.Close()

	m := metrics.New()
	ledgerWorker := worker.NewLedgerWorker(bills, ledger, m)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, cli.ServeMetrics(logger, cfg.MetricsAddr, m))

	logger.Info("Consuming record events",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"ledger", cfg.LedgerEnabled())

	if err := consumer.ConsumeRecordEvents(ctx, ledgerWorker.HandleRecordEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Household-worker shutdown complete")
}
