package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

func TestGetFitting(t *testing.T) {
	ctx := context.Background()
	b, _ := attachTestBackend(t)

	tests := []struct {
		name    string
		code    string
		wantErr error
		check   func(t *testing.T, f *types.Fitting)
	}{
		{
			name: "seeded default fitting",
			code: types.DefaultFittingCode,
			check: func(t *testing.T, f *types.Fitting) {
				assert.Equal(t, "Check valve", f.Description)
				assert.Equal(t, "25 psi", types.Deref(f.CrackingPressure))
				assert.Equal(t, "stainless steel", types.Deref(f.Material))
			},
		},
		{name: "unknown code", code: "NOPE", wantErr: types.ErrNotFound},
		{name: "empty code", code: "", wantErr: types.ErrInvalidCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.GetFitting(ctx, tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestSetFitting(t *testing.T) {
	ctx := context.Background()

	t.Run("add then get round-trips", func(t *testing.T) {
		b, _ := attachTestBackend(t)
		fit := &types.Fitting{
			Code:             "1A-TEST-5-SS",
			Description:      "Dummy",
			Series:           "1A",
			Configuration:    "TEST",
			CrackingPressure: types.StringPtr("5 psi"),
			Material:         types.StringPtr("stainless steel"),
		}
		require.NoError(t, b.SetFitting(ctx, fit))

		got, err := b.GetFitting(ctx, fit.Code)
		require.NoError(t, err)
		assert.Equal(t, fit, got)
	})

	t.Run("set replaces an existing code", func(t *testing.T) {
		b, _ := attachTestBackend(t)
		updated := types.DefaultFitting()
		updated.Description = "Check valve, high flow"
		updated.Material = nil
		require.NoError(t, b.SetFitting(ctx, updated))

		got, err := b.GetFitting(ctx, types.DefaultFittingCode)
		require.NoError(t, err)
		assert.Equal(t, "Check valve, high flow", got.Description)
		assert.Nil(t, got.Material)
	})

	t.Run("invalid fitting is rejected", func(t *testing.T) {
		b, _ := attachTestBackend(t)
		err := b.SetFitting(ctx, &types.Fitting{Code: "X"})
		assert.ErrorIs(t, err, types.ErrInvalidData)
	})
}

func TestFetchFittings(t *testing.T) {
	ctx := context.Background()
	b, _ := attachTestBackend(t)

	for _, f := range []*types.Fitting{
		{Code: "6B-A", Description: "a", Series: "6B", Configuration: "A", Material: types.StringPtr("brass")},
		{Code: "6B-B", Description: "b", Series: "6B", Configuration: "B", Material: types.StringPtr("stainless steel")},
		{Code: "2C-C", Description: "c", Series: "2C", Configuration: "C"},
	} {
		require.NoError(t, b.SetFitting(ctx, f))
	}

	codes := func(fs []*types.Fitting) []string {
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = f.Code
		}
		return out
	}

	tests := []struct {
		name    string
		filter  types.Filter
		want    []string
		wantErr error
	}{
		{name: "nil filter returns all ordered by code", filter: nil, want: []string{"2C-C", "4A-C4L-25-SS", "6B-A", "6B-B"}},
		{name: "series", filter: types.Filter{types.FilterSeries: "6B"}, want: []string{"6B-A", "6B-B"}},
		{name: "series and material", filter: types.Filter{types.FilterSeries: "6B", types.FilterMaterial: "brass"}, want: []string{"6B-A"}},
		{name: "limit", filter: types.Filter{types.FilterLimit: 2}, want: []string{"2C-C", "4A-C4L-25-SS"}},
		{name: "offset without limit", filter: types.Filter{types.FilterOffset: 3}, want: []string{"6B-B"}},
		{name: "limit and offset", filter: types.Filter{types.FilterLimit: 1, types.FilterOffset: 1}, want: []string{"4A-C4L-25-SS"}},
		{name: "no match is empty not nil", filter: types.Filter{types.FilterSeries: "9Z"}, want: []string{}},
		{name: "bad filter type", filter: types.Filter{types.FilterSeries: 6}, wantErr: types.ErrInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.FetchFittings(ctx, tt.filter)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(got))
		})
	}
}
