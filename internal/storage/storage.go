package storage

import (
	"context"
	"time"

	"github.com/steveyegge/cubic/internal/storage/sqlite"
	"github.com/steveyegge/cubic/internal/types"
)

// Storage defines the interface for solve history backends
type Storage interface {
	// RecordSolve stores rec, assigning ID and CreatedAt when unset
	RecordSolve(ctx context.Context, rec *types.SolveRecord) error
	// GetSolve looks a record up by ID or unique ID prefix
	GetSolve(ctx context.Context, id string) (*types.SolveRecord, error)
	// ListSolves returns the newest records first
	ListSolves(ctx context.Context, limit int) ([]*types.SolveRecord, error)
	// ClearHistory deletes every record and returns how many were removed
	ClearHistory(ctx context.Context) (int, error)
	// PruneHistory deletes records created before cutoff (ignored when zero)
	// and the oldest records beyond maxRecords (ignored when 0)
	PruneHistory(ctx context.Context, cutoff time.Time, maxRecords, batchSize int) (int, error)

	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".cubic/history.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".cubic/history.db",
	}
}

// NewStorage creates a new SQLite storage backend
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}
	s, err := sqlite.New(ctx, cfg.Path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
