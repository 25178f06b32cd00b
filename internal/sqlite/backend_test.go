package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

// attachTestBackend attaches a backend to a fresh temp dir and detaches it
// when the test ends.
func attachTestBackend(t *testing.T) (*Backend, string) {
	t.Helper()

	dataDir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	t.Cleanup(func() { b.Detach() })
	return b, dataDir
}

func TestBackend_Attach(t *testing.T) {
	dataDir := t.TempDir()
	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(dataDir, dbFileName))
	assert.NoError(t, err, "database file should exist")
	_, err = os.Stat(filepath.Join(dataDir, fittingsJSONL))
	assert.NoError(t, err, "JSONL file should exist")

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr error
	}{
		{name: "empty backend", config: types.Config{}, wantErr: types.ErrBackendEmpty},
		{name: "memory backend", config: types.Config{Backend: types.BackendMemory}, wantErr: types.ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, NewBackend().Attach(tt.config), tt.wantErr)
		})
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "Detach should be idempotent")

	ctx := context.Background()
	_, err := b.GetFitting(ctx, types.DefaultFittingCode)
	assert.ErrorIs(t, err, types.ErrRegistryDetached)
	assert.ErrorIs(t, b.SetFitting(ctx, types.DefaultFitting()), types.ErrRegistryDetached)
	_, err = b.FetchFittings(ctx, nil)
	assert.ErrorIs(t, err, types.ErrRegistryDetached)
}

func TestBackend_SurvivesReattach(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	require.NoError(t, b.SetFitting(ctx, &types.Fitting{
		Code:          "2B-XYZ-10-CS",
		Description:   "Sample valve",
		Series:        "2B",
		Configuration: "XYZ",
		Material:      types.StringPtr("carbon steel"),
	}))
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	got, err := b2.GetFitting(ctx, "2B-XYZ-10-CS")
	require.NoError(t, err)
	assert.Equal(t, "carbon steel", types.Deref(got.Material))
	assert.Nil(t, got.CrackingPressure)

	all, err := b2.FetchFittings(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2, "seed must not be duplicated on reattach")
}
