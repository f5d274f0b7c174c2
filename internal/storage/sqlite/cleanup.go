package sqlite

import (
	"context"
	"fmt"
	"time"
)

// PruneHistory deletes records created before cutoff (skipped when cutoff is
// zero), then the oldest records beyond maxRecords (skipped when 0).
// Deletions run in batches of batchSize.
func (s *SQLiteStorage) PruneHistory(ctx context.Context, cutoff time.Time, maxRecords, batchSize int) (int, error) {
	if maxRecords < 0 {
		return 0, fmt.Errorf("max records cannot be negative")
	}
	if batchSize < 1 {
		return 0, fmt.Errorf("batch size must be at least 1")
	}

	totalDeleted := 0

	if !cutoff.IsZero() {
		deleted, err := s.deleteOlderThan(ctx, cutoff, batchSize)
		totalDeleted += deleted
		if err != nil {
			return totalDeleted, fmt.Errorf("failed to delete expired solves: %w", err)
		}
	}

	if maxRecords > 0 {
		deleted, err := s.deleteBeyondLimit(ctx, maxRecords, batchSize)
		totalDeleted += deleted
		if err != nil {
			return totalDeleted, fmt.Errorf("failed to enforce history limit: %w", err)
		}
	}

	return totalDeleted, nil
}

// deleteOlderThan deletes records created before cutoff in batches
func (s *SQLiteStorage) deleteOlderThan(ctx context.Context, cutoff time.Time, batchSize int) (int, error) {
	totalDeleted := 0

	for {
		select {
		case <-ctx.Done():
			return totalDeleted, ctx.Err()
		default:
		}

		n, err := s.deleteBatch(ctx, `
			DELETE FROM solves
			WHERE id IN (
				SELECT id FROM solves
				WHERE created_at < ?
				ORDER BY created_at ASC
				LIMIT ?
			)
		`, cutoff.UnixNano(), batchSize)
		if err != nil {
			return totalDeleted, err
		}
		totalDeleted += n

		if n < batchSize {
			return totalDeleted, nil
		}
	}
}

// deleteBeyondLimit deletes the oldest records until at most limit remain
func (s *SQLiteStorage) deleteBeyondLimit(ctx context.Context, limit, batchSize int) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solves`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count solves: %w", err)
	}

	totalDeleted := 0
	remaining := count - limit

	for remaining > 0 {
		select {
		case <-ctx.Done():
			return totalDeleted, ctx.Err()
		default:
		}

		limitThisBatch := batchSize
		if remaining < batchSize {
			limitThisBatch = remaining
		}

		n, err := s.deleteBatch(ctx, `
			DELETE FROM solves
			WHERE id IN (
				SELECT id FROM solves
				ORDER BY created_at ASC, rowid ASC
				LIMIT ?
			)
		`, limitThisBatch)
		if err != nil {
			return totalDeleted, err
		}
		totalDeleted += n
		remaining -= n

		if n == 0 {
			break
		}
	}

	return totalDeleted, nil
}

func (s *SQLiteStorage) deleteBatch(ctx context.Context, query string, args ...any) (int, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}
