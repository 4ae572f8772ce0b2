package backend

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"household/internal/config"
	"household/internal/log"
	sheetsmem "household/internal/sheets/memory"
)

const seedJSON = `{
  "bills": [{"id": "mortgage", "name": "Mortgage", "amount": "1450.00", "due_date": "2025-06-01", "recurring": true, "category": "housing"}],
  "tasks": [{"title": "Pay rent", "due_label": "Today"}]
}`

func quietFactory() *DefaultFactory {
	cfg := log.DefaultConfig()
	cfg.Output = io.Discard
	return NewFactory(log.New(cfg))
}

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o644))
	return path
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	app := &config.Config{
		DataBackend:         "sqlite",
		SQLiteDBPath:        "/tmp/h.db",
		SeedFile:            "seed.json",
		AMQPURL:             "amqp://localhost",
		AMQPExchange:        "household",
		AMQPQueue:           "record_events",
		GoogleSpreadsheetID: "sheet",
		GoogleLedgerSheet:   "Ledger",
	}
	got, err := FromAppConfig(app)
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, got.Type)
	assert.Equal(t, "/tmp/h.db", got.SQLiteDBPath)
	assert.Equal(t, "seed.json", got.SeedFile)
	assert.Equal(t, "record_events", got.AMQPQueue)
	assert.True(t, got.LedgerEnabled())

	app.DataBackend = "sheets"
	_, err = FromAppConfig(app)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown type", Config{Type: "postgres"}, true},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://x", AMQPExchange: "e"}, true},
		{"ledger without credentials", Config{Type: MemoryBackend, GoogleSpreadsheetID: "s", GoogleLedgerSheet: "Ledger"}, true},
		{"ledger without sheet", Config{Type: MemoryBackend, GoogleSpreadsheetID: "s", GoogleCredentialsJSON: "{}"}, true},
		{"ledger", Config{Type: MemoryBackend, GoogleSpreadsheetID: "s", GoogleLedgerSheet: "Ledger", GoogleCredentialsFile: "sa.json"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackendTypes(t *testing.T) {
	assert.Equal(t, []string{"memory", "sqlite"}, GetBackendTypeStrings())
	assert.False(t, BackendType("sheets").IsValid())
}

func TestCreateMemoryBackend(t *testing.T) {
	ctx := context.Background()
	f := quietFactory()

	res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
	require.NoError(t, err)
	assert.Nil(t, res.Events)
	bills, err := res.Store.ListBills(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)
	assert.NoError(t, res.Cleanup())

	res, err = f.CreateBackend(ctx, Config{Type: MemoryBackend, SeedFile: writeSeed(t)})
	require.NoError(t, err)
	bills, err = res.Store.ListBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "mortgage", bills[0].ID)

	_, err = f.CreateBackend(ctx, Config{Type: MemoryBackend, SeedFile: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestCreateSQLiteBackendSeedsOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	f := quietFactory()
	cfg := Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "household.db"),
		SeedFile:     writeSeed(t),
	}

	res, err := f.CreateBackend(ctx, cfg)
	require.NoError(t, err)
	tasks, err := res.Store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	require.NoError(t, res.Cleanup())

	// Reopening must not import the seed a second time.
	res, err = f.CreateBackend(ctx, cfg)
	require.NoError(t, err)
	defer res.Cleanup()
	tasks, err = res.Store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	_, err := quietFactory().CreateBackend(context.Background(), Config{Type: SQLiteBackend})
	assert.Error(t, err)
}

func TestCreateLedgerFallsBackToMemory(t *testing.T) {
	ledger, err := quietFactory().CreateLedger(context.Background(), Config{Type: MemoryBackend})
	require.NoError(t, err)
	assert.IsType(t, &sheetsmem.Ledger{}, ledger)
}

func TestCreateLedgerReportsCredentialErrors(t *testing.T) {
	_, err := quietFactory().CreateLedger(context.Background(), Config{
		Type:                  MemoryBackend,
		GoogleSpreadsheetID:   "sheet",
		GoogleLedgerSheet:     "Ledger",
		GoogleCredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize Google Sheets client")
}
