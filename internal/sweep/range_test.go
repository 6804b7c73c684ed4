package sweep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		r    Range
		want []float64
	}{
		{
			name: "inclusive start exclusive stop",
			r:    Range{Start: -1.0, Stop: 0.5, Step: 0.5},
			want: []float64{-1.0, -0.5, 0.0},
		},
		{
			name: "integer axis",
			r:    Range{Start: 200, Stop: 500, Step: 100},
			want: []float64{200, 300, 400},
		},
		{
			name: "single value",
			r:    Range{Start: 200, Stop: 201, Step: 100},
			want: []float64{200},
		},
		{
			name: "zero step yields nothing",
			r:    Range{Start: 0, Stop: 1, Step: 0},
			want: nil,
		},
		{
			name: "start at stop yields nothing",
			r:    Range{Start: 1, Stop: 1, Step: 0.5},
			want: nil,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.r.Values()
			require.Len(t, got, len(tc.want))
			for i, want := range tc.want {
				require.InDelta(t, want, got[i], 1e-9, "value %d", i)
			}
			require.Equal(t, len(tc.want), tc.r.Count())
		})
	}
}

func TestRangeValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Range{Start: -1, Stop: 0, Step: 0.5}.Validate("lowfreq"))

	err := Range{Start: -1, Stop: 0, Step: 0}.Validate("lowfreq")
	require.Error(t, err)
	require.Contains(t, err.Error(), "step must be positive")

	err = Range{Start: 1, Stop: 1, Step: 0.5}.Validate("upfreq")
	require.Error(t, err)
	require.Contains(t, err.Error(), "start 1 must be below stop 1")

	err = Range{Start: -1, Stop: 0, Step: -0.5}.Validate("dcutoff")
	require.Error(t, err)
	require.Contains(t, err.Error(), "dcutoff")
}

func TestRangeValuesNoFloatDrift(t *testing.T) {
	t.Parallel()

	// 0.1 steps accumulate error under naive v += step; index-based
	// stepping must still stop exactly before the bound.
	r := Range{Start: 0, Stop: 1, Step: 0.1}
	require.Equal(t, 10, r.Count())
}
