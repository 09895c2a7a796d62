package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SnapshotRow is a persisted snapshot record. Payload is the serialized
// engine snapshot; SchemaVersion is duplicated out of the payload so load can
// reject unknown layouts without decoding.
type SnapshotRow struct {
	ID            string
	SchemaVersion int
	Payload       []byte
	SavedAt       time.Time
}

type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Replace writes a snapshot, superseding all earlier rows. Delete and insert
// run in one transaction so readers never observe a partial write.
func (r *SnapshotRepo) Replace(ctx context.Context, row SnapshotRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("snapshot replace: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id != ?`, row.ID); err != nil {
		return fmt.Errorf("snapshot replace: prune: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, schema_version, payload, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`, row.ID, row.SchemaVersion, string(row.Payload), row.SavedAt.UTC()); err != nil {
		return fmt.Errorf("snapshot replace: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("snapshot replace: commit: %w", err)
	}
	return nil
}

// Latest returns the most recent snapshot, or nil when none exists.
func (r *SnapshotRepo) Latest(ctx context.Context) (*SnapshotRow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, schema_version, payload, saved_at
		FROM snapshots
		ORDER BY saved_at DESC
		LIMIT 1
	`)

	var (
		out     SnapshotRow
		payload string
	)
	if err := row.Scan(&out.ID, &out.SchemaVersion, &payload, &out.SavedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot latest: %w", err)
	}
	out.Payload = []byte(payload)
	return &out, nil
}

// DeleteAll removes every persisted snapshot. Irreversible.
func (r *SnapshotRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("snapshot delete all: %w", err)
	}
	return nil
}
