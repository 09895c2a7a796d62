package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SnapshotRepo {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "qz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSnapshotRepo(db)
}

func row(id string, at time.Time) SnapshotRow {
	return SnapshotRow{
		ID:            id,
		SchemaVersion: 1,
		Payload:       []byte(`{"schema_version":1}`),
		SavedAt:       at,
	}
}

func TestLatestEmpty(t *testing.T) {
	repo := openTestDB(t)
	got, err := repo.Latest(context.Background())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestReplaceSupersedes(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Replace(ctx, row("first", base)))
	require.NoError(t, repo.Replace(ctx, row("second", base.Add(time.Minute))))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "second", got.ID)
	require.Equal(t, 1, got.SchemaVersion)
	require.JSONEq(t, `{"schema_version":1}`, string(got.Payload))

	// The superseded row is gone, not merely shadowed.
	count := queryCount(t, repo)
	require.Equal(t, 1, count)
}

func TestReplaceSameIDUpdates(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Replace(ctx, row("snap", base)))
	updated := row("snap", base.Add(time.Minute))
	updated.Payload = []byte(`{"schema_version":1,"updated":true}`)
	require.NoError(t, repo.Replace(ctx, updated))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, updated.Payload, got.Payload)
	require.Equal(t, 1, queryCount(t, repo))
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	require.NoError(t, repo.Replace(ctx, row("snap", time.Now())))
	require.NoError(t, repo.DeleteAll(ctx))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "qz.db"))
	require.NoError(t, err)
	defer db.Close()

	// Open already migrated; a second run must not fail or drop data.
	repo := NewSnapshotRepo(db)
	require.NoError(t, repo.Replace(ctx, row("snap", time.Now())))
	require.NoError(t, Migrate(ctx, db))

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func queryCount(t *testing.T, repo *SnapshotRepo) int {
	t.Helper()
	var n int
	err := repo.db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM snapshots`).Scan(&n)
	require.NoError(t, err)
	return n
}
