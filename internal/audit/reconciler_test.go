package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

type memRecorder struct {
	records []Record
}

func (m *memRecorder) RecordPartialWrite(_ context.Context, rec Record) {
	m.records = append(m.records, rec)
}

func seed(t *testing.T, store *docstore.MemoryStore, collection, id string, doc docstore.Document) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), collection, id, doc, false))
}

func TestSweepCleanState(t *testing.T) {
	store := docstore.NewMemoryStore()
	seed(t, store, "users", "u1", docstore.Document{"currentProject": "proj_1"})
	seed(t, store, "users", "u2", docstore.Document{})
	seed(t, store, "projects", "proj_1", docstore.Document{"team": []any{"creator", "u1"}})

	rec := &memRecorder{}
	require.NoError(t, NewReconciler(store, rec, zerolog.Nop()).Sweep(context.Background()))
	assert.Empty(t, rec.records)
}

func TestSweepFlagsMissingProject(t *testing.T) {
	store := docstore.NewMemoryStore()
	seed(t, store, "users", "u1", docstore.Document{"currentProject": "proj_gone"})

	rec := &memRecorder{}
	require.NoError(t, NewReconciler(store, rec, zerolog.Nop()).Sweep(context.Background()))

	require.Len(t, rec.records, 1)
	assert.Equal(t, "user", rec.records[0].Entity)
	assert.Equal(t, "u1", rec.records[0].EntityID)
	assert.Contains(t, rec.records[0].FailedStep, "proj_gone")
}

func TestSweepFlagsTeamMissingUser(t *testing.T) {
	store := docstore.NewMemoryStore()
	seed(t, store, "users", "u1", docstore.Document{"currentProject": "proj_1"})
	seed(t, store, "projects", "proj_1", docstore.Document{"team": []any{"creator"}})

	rec := &memRecorder{}
	require.NoError(t, NewReconciler(store, rec, zerolog.Nop()).Sweep(context.Background()))

	require.Len(t, rec.records, 1)
	assert.Equal(t, "project", rec.records[0].Entity)
	assert.Equal(t, "proj_1", rec.records[0].EntityID)
	assert.Equal(t, "u1", rec.records[0].UserID)
}

func TestPartialWriteError(t *testing.T) {
	inner := errors.New("store unavailable")
	err := &PartialWriteError{Entity: "project", EntityID: "proj_1", FailedStep: "users.currentProject", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "proj_1")
	assert.Contains(t, err.Error(), "users.currentProject")
}
