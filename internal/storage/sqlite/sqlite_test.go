package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"todoList/internal/models/todo"
	"todoList/internal/storage"
	"todoList/internal/storage/sqlite"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.Store = (*sqlite.Storage)(nil)

func newTempDB(t *testing.T) *sqlite.Storage {
	t.Helper()
	ctx := context.Background()

	dsn, err := sqlite.FileDSN(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	s, err := sqlite.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestSQLite_CreateAndReadAll(t *testing.T) {
	ctx := context.Background()
	s := newTempDB(t)

	for i := 1; i <= 3; i++ {
		_, err := s.Create(ctx, fmt.Sprintf("Todo %d", i))
		require.NoError(t, err)
	}

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Todo 1", all[0].Content)
	assert.Equal(t, "Todo 3", all[2].Content)
	for _, td := range all {
		assert.False(t, td.Done)
		assert.False(t, td.Date.IsZero())
	}
}

func TestSQLite_Update(t *testing.T) {
	ctx := context.Background()
	s := newTempDB(t)

	created, err := s.Create(ctx, "toggle me")
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, todo.WithDone(true))
	require.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "toggle me", updated.Content)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.True(t, all[0].Done)

	_, err = s.Update(ctx, uuid.NewString(), todo.WithDone(true))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSQLite_DeleteByID(t *testing.T) {
	ctx := context.Background()
	s := newTempDB(t)

	created, err := s.Create(ctx, "delete me")
	require.NoError(t, err)

	require.NoError(t, s.DeleteByID(ctx, created.ID))
	assert.ErrorIs(t, s.DeleteByID(ctx, created.ID), storage.ErrNotFound)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLite_HealthCheck(t *testing.T) {
	s := newTempDB(t)
	assert.NoError(t, s.HealthCheck(context.Background()))
}
