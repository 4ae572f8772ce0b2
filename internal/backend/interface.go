package backend

import (
	"context"

	"household/internal/amqp"
	"household/internal/ports"
	"household/internal/sheets"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store, the optional event publisher and a
// cleanup function that releases both.
type BackendResult struct {
	Store ports.Store
	// Events is nil when no broker is configured or it could not be reached.
	Events  *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates the record store and event publisher.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	// CreateLedger creates the paid-bill ledger writer.
	CreateLedger(ctx context.Context, config Config) (sheets.LedgerWriter, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string
	SeedFile     string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	GoogleSpreadsheetID   string
	GoogleLedgerSheet     string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string
}

// BackendType represents the type of record store
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

// String returns the string representation of the backend type
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid checks if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
