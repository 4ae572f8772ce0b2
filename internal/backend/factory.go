package backend

import (
	"context"
	"errors"
	"fmt"

	"household/internal/amqp"
	"household/internal/log"
	"household/internal/memory"
	"household/internal/ports"
	"household/internal/sheets"
	gsheet "household/internal/sheets/google"
	sheetsmem "household/internal/sheets/memory"
	"household/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

var _ Factory = (*DefaultFactory)(nil)

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentBackend)
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store      ports.Store
		closeStore func() error
		err        error
	)
	switch config.Type {
	case SQLiteBackend:
		store, closeStore, err = f.createSQLiteStore(ctx, config)
	case MemoryBackend:
		store, err = f.createMemoryStore(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	events := f.connectEvents(config)

	return &BackendResult{
		Store:  store,
		Events: events,
		Cleanup: func() error {
			var errs []error
			if events != nil {
				errs = append(errs, events.Close())
			}
			if closeStore != nil {
				errs = append(errs, closeStore())
			}
			return errors.Join(errs...)
		},
	}, nil
}

func (f *DefaultFactory) createSQLiteStore(ctx context.Context, config Config) (ports.Store, func() error, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	if config.SeedFile != "" {
		n, err := seedIfEmpty(ctx, repo, config.SeedFile)
		if err != nil {
			repo.Close()
			return nil, nil, err
		}
		if n > 0 {
			f.logger.Info("Seeded empty database", "seed_file", config.SeedFile, "records", n)
		}
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, repo.Close, nil
}

func (f *DefaultFactory) createMemoryStore(ctx context.Context, config Config) (ports.Store, error) {
	if config.SeedFile == "" {
		f.logger.Info("Initialized memory backend")
		return memory.New(), nil
	}
	store, err := memory.NewFromSeedFile(ctx, config.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed file: %w", err)
	}
	f.logger.Info("Initialized memory backend", "seed_file", config.SeedFile)
	return store, nil
}

// connectEvents opens the broker connection. A broker that cannot be
// reached leaves the store usable without events.
func (f *DefaultFactory) connectEvents(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

// CreateLedger implements Factory.CreateLedger. Without a spreadsheet the
// ledger is kept in memory.
func (f *DefaultFactory) CreateLedger(ctx context.Context, config Config) (sheets.LedgerWriter, error) {
	if !config.LedgerEnabled() {
		f.logger.Warn("No spreadsheet configured, paid bills are kept in memory only")
		return sheetsmem.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		Sheet:           config.GoogleLedgerSheet,
		CredentialsJSON: config.GoogleCredentialsJSON,
		CredentialsFile: config.GoogleCredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets ledger", "sheet", config.GoogleLedgerSheet)
	return client, nil
}

// seedIfEmpty imports the seed file only when the store holds no records.
func seedIfEmpty(ctx context.Context, store ports.Store, path string) (int, error) {
	empty, err := isEmpty(ctx, store)
	if err != nil {
		return 0, fmt.Errorf("check store contents: %w", err)
	}
	if !empty {
		return 0, nil
	}
	seed, err := memory.LoadSeedFile(path)
	if err != nil {
		return 0, err
	}
	return seed.Import(ctx, store)
}

func isEmpty(ctx context.Context, store ports.Store) (bool, error) {
	counts := []func(context.Context) (int, error){
		func(ctx context.Context) (int, error) { v, err := store.ListBills(ctx); return len(v), err },
		func(ctx context.Context) (int, error) { v, err := store.ListSubscriptions(ctx); return len(v), err },
		func(ctx context.Context) (int, error) { v, err := store.ListVehicles(ctx); return len(v), err },
		func(ctx context.Context) (int, error) { v, err := store.ListPasswords(ctx); return len(v), err },
		func(ctx context.Context) (int, error) { v, err := store.ListTasks(ctx); return len(v), err },
	}
	for _, count := range counts {
		n, err := count(ctx)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return false, nil
		}
	}
	return true, nil
}
