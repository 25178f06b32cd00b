package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

// testDSN returns the DSN of a scratch database or skips the test.
func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("JOBB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("JOBB_TEST_POSTGRES_DSN not set")
	}
	return dsn
}

func TestAttachRejectsConfig(t *testing.T) {
	r := NewRegistry(nil)
	assert.ErrorIs(t, r.Attach(types.Config{Backend: types.BackendPostgres}), types.ErrDSNEmpty)
	assert.ErrorIs(t, r.Attach(types.Config{Backend: types.BackendMemory}), types.ErrBackendUnknown)
}

func TestDetachedRegistry(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Detach())

	_, err := r.GetFitting(context.Background(), types.DefaultFittingCode)
	assert.ErrorIs(t, err, types.ErrRegistryDetached)
	_, err = r.GetFitting(context.Background(), "")
	assert.ErrorIs(t, err, types.ErrInvalidCode)
}

func TestRegistryRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil)
	require.NoError(t, r.Attach(types.Config{Backend: types.BackendPostgres, PostgresDSN: testDSN(t)}))
	defer r.Detach()

	seed, err := r.GetFitting(ctx, types.DefaultFittingCode)
	require.NoError(t, err)
	assert.Equal(t, "Check valve", seed.Description)

	fit := &types.Fitting{
		Code:          "PG-TEST-1",
		Description:   "Postgres round trip",
		Series:        "PG",
		Configuration: "T1",
		Material:      types.StringPtr("brass"),
	}
	require.NoError(t, r.SetFitting(ctx, fit))

	got, err := r.GetFitting(ctx, fit.Code)
	require.NoError(t, err)
	assert.Equal(t, fit, got)

	list, err := r.FetchFittings(ctx, types.Filter{types.FilterSeries: "PG"})
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "PG-TEST-1", list[0].Code)

	_, err = r.GetFitting(ctx, "PG-MISSING")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
