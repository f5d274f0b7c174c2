package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/steveyegge/cubic/internal/types"
)

// ErrNotFound is returned when no record matches a lookup
var ErrNotFound = errors.New("solve not found")

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// New creates a new SQLite storage backend
func New(ctx context.Context, path string) (*SQLiteStorage, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		// WAL lets a watch session and a one-shot solve share the file
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate records the schema version, refusing databases written by a newer schema
func (s *SQLiteStorage) migrate(ctx context.Context) error {
	version, err := s.GetConfig(ctx, "schema_version")
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	switch version {
	case "":
		return s.SetConfig(ctx, "schema_version", schemaVersion)
	case schemaVersion:
		return nil
	default:
		return fmt.Errorf("unsupported schema version %s (expected %s)", version, schemaVersion)
	}
}

// RecordSolve stores a solve, assigning an ID and timestamp when missing
func (s *SQLiteStorage) RecordSolve(ctx context.Context, rec *types.SolveRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	negative, err := encodeRoots(rec.Negative)
	if err != nil {
		return err
	}
	all, err := encodeRoots(rec.All)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO solves (id, a, b, c, d, negative_roots, all_roots, source, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Coefficients.A, rec.Coefficients.B, rec.Coefficients.C, rec.Coefficients.D,
		negative, all, string(rec.Source), int64(rec.Duration), rec.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert solve: %w", err)
	}
	return nil
}

const selectSolve = `
	SELECT id, a, b, c, d, negative_roots, all_roots, source, duration_ns, created_at
	FROM solves
`

// GetSolve returns the record with the given ID or unique ID prefix
func (s *SQLiteStorage) GetSolve(ctx context.Context, id string) (*types.SolveRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	rows, err := s.db.QueryContext(ctx, selectSolve+`
		WHERE id = ? OR substr(id, 1, length(?)) = ?
		ORDER BY id = ? DESC
		LIMIT 2
	`, id, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query solve: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	switch {
	case len(records) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case records[0].ID == id || len(records) == 1:
		return records[0], nil
	default:
		return nil, fmt.Errorf("ambiguous id prefix %q", id)
	}
}

// ListSolves returns up to limit records, newest first. limit <= 0 means no limit.
func (s *SQLiteStorage) ListSolves(ctx context.Context, limit int) ([]*types.SolveRecord, error) {
	query := selectSolve + ` ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list solves: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ClearHistory deletes all solve records
func (s *SQLiteStorage) ClearHistory(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM solves`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return int(n), nil
}

// GetConfig returns a metadata value, or "" when the key is not set
func (s *SQLiteStorage) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return value, nil
}

// SetConfig stores a metadata value
func (s *SQLiteStorage) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]*types.SolveRecord, error) {
	var records []*types.SolveRecord
	for rows.Next() {
		var (
			rec            types.SolveRecord
			negative, all  string
			source         string
			durationNs     int64
			createdAtNanos int64
		)
		if err := rows.Scan(&rec.ID,
			&rec.Coefficients.A, &rec.Coefficients.B, &rec.Coefficients.C, &rec.Coefficients.D,
			&negative, &all, &source, &durationNs, &createdAtNanos); err != nil {
			return nil, fmt.Errorf("failed to scan solve: %w", err)
		}

		var err error
		if rec.Negative, err = decodeRoots(negative); err != nil {
			return nil, fmt.Errorf("solve %s: %w", rec.ID, err)
		}
		if rec.All, err = decodeRoots(all); err != nil {
			return nil, fmt.Errorf("solve %s: %w", rec.ID, err)
		}
		rec.Source = types.Source(source)
		rec.Duration = time.Duration(durationNs)
		rec.CreatedAt = time.Unix(0, createdAtNanos)

		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate solves: %w", err)
	}
	return records, nil
}

func encodeRoots(roots []float64) (string, error) {
	if roots == nil {
		roots = []float64{}
	}
	data, err := json.Marshal(roots)
	if err != nil {
		return "", fmt.Errorf("failed to encode roots: %w", err)
	}
	return string(data), nil
}

func decodeRoots(s string) ([]float64, error) {
	var roots []float64
	if err := json.Unmarshal([]byte(s), &roots); err != nil {
		return nil, fmt.Errorf("failed to decode roots: %w", err)
	}
	if len(roots) == 0 {
		return nil, nil
	}
	return roots, nil
}
