package sweep

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chromosweep/chromosweep/internal/catalog"
)

func bGlobinMatrix() catalog.Matrix {
	return catalog.Matrix{
		Cell:         "Ery",
		Region:       "b-globin",
		Chromosome:   "chr11",
		Start:        4615000,
		End:          6175000,
		ResolutionBp: 5000,
		Path:         filepath.Join("testdata", "Ery", "b-globin", "Matrix_Ery_b-globin_chr11-4615000-6175000_5000bp"),
	}
}

func testRun() RunControls {
	return RunControls{CPUs: 8, NModels: 100, MaxJobTime: 24 * time.Hour}
}

func TestEnumerateBGlobinScenario(t *testing.T) {
	t.Parallel()

	axes := Axes{
		LowFreq: Range{Start: -1.0, Stop: 0.0, Step: 0.5},  // {-1.0, -0.5}
		UpFreq:  Range{Start: -0.5, Stop: 0.5, Step: 0.5},  // {-0.5, 0.0}
		MaxDist: Range{Start: 250, Stop: 300, Step: 100},   // {250}
		DCutoff: Range{Start: 100, Stop: 300, Step: 100},   // {100, 200}
	}

	sw, err := Enumerate(context.Background(), bGlobinMatrix(), axes, 0.01, testRun(), t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "Ery", sw.Cell)
	require.Equal(t, "b-globin", sw.Region)

	// 2 lowfreq × 2 upfreq × 1 maxdist, both cutoffs riding each
	// combination: 4 jobs of 2 cutoffs each, 8 parameter points total.
	require.Len(t, sw.Jobs, 4)

	seen := map[string]bool{}
	for _, job := range sw.Jobs {
		require.Equal(t, []int{100, 200}, job.DCutoffs)
		require.Contains(t, job.ID(), "_5000bp")
		require.False(t, seen[job.ID()], "duplicate identifier %s", job.ID())
		seen[job.ID()] = true
	}
	cutoffPoints := 0
	for _, job := range sw.Jobs {
		cutoffPoints += len(job.DCutoffs)
	}
	require.Equal(t, 8, cutoffPoints, "2×2×1×2 parameter points")
}

func TestEnumerateCartesianCompleteness(t *testing.T) {
	t.Parallel()

	axes := Axes{
		LowFreq: Range{Start: -1.0, Stop: 0.5, Step: 0.5}, // 3 values
		UpFreq:  Range{Start: 0.0, Stop: 1.0, Step: 0.5},  // 2 values
		MaxDist: Range{Start: 300, Stop: 600, Step: 100},  // 3 values
		DCutoff: Range{Start: 100, Stop: 500, Step: 100},  // 4 base values
	}

	sw, err := Enumerate(context.Background(), bGlobinMatrix(), axes, 0.01, testRun(), t.TempDir())
	require.NoError(t, err)

	// One job per (lowfreq, maxdist, upfreq): 3 × 3 × 2.
	require.Len(t, sw.Jobs, 18)

	// Floor = 2 × 0.01 × 5000 = 100. Per maxdist m the cutoffs are the
	// base values in [100, m).
	wantCutoffs := map[int][]int{
		300: {100, 200},
		400: {100, 200, 300},
		500: {100, 200, 300, 400},
	}
	ids := map[string]bool{}
	for _, job := range sw.Jobs {
		require.Equal(t, wantCutoffs[job.MaxDist], job.DCutoffs, "maxdist %d", job.MaxDist)
		require.False(t, ids[job.ID()], "duplicate identifier %s", job.ID())
		ids[job.ID()] = true
	}
}

func TestEnumerateDCutoffFloorInvariant(t *testing.T) {
	t.Parallel()

	axes := Axes{
		LowFreq: Range{Start: -1.0, Stop: -0.5, Step: 0.5},
		UpFreq:  Range{Start: 0.0, Stop: 0.5, Step: 0.5},
		MaxDist: Range{Start: 150, Stop: 450, Step: 100},
		DCutoff: Range{Start: 50, Stop: 450, Step: 50},
	}
	m := bGlobinMatrix() // floor = 2 × 0.01 × 5000 = 100

	sw, err := Enumerate(context.Background(), m, axes, 0.01, testRun(), t.TempDir())
	require.NoError(t, err)

	floor := 2 * 0.01 * float64(m.ResolutionBp)
	for _, job := range sw.Jobs {
		require.NotEmpty(t, job.DCutoffs)
		for _, d := range job.DCutoffs {
			require.GreaterOrEqual(t, float64(d), floor, "cutoff below floor in %s", job.ID())
			require.Less(t, d, job.MaxDist, "cutoff not below maxdist in %s", job.ID())
		}
	}
}

func TestEnumerateRejectsDegenerate(t *testing.T) {
	t.Parallel()

	good := Range{Start: 0, Stop: 1, Step: 0.5}

	cases := []struct {
		name string
		axes Axes
	}{
		{"zero step lowfreq", Axes{LowFreq: Range{Start: 0, Stop: 1}, UpFreq: good, MaxDist: good, DCutoff: good}},
		{"inverted maxdist", Axes{LowFreq: good, UpFreq: good, MaxDist: Range{Start: 500, Stop: 200, Step: 100}, DCutoff: good}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Enumerate(context.Background(), bGlobinMatrix(), tc.axes, 0.01, testRun(), t.TempDir())
			require.Error(t, err)
		})
	}
}

func TestEnumerateEmptyProductIsError(t *testing.T) {
	t.Parallel()

	// Every cutoff sits below the floor, so no maxdist admits any.
	axes := Axes{
		LowFreq: Range{Start: -1.0, Stop: -0.5, Step: 0.5},
		UpFreq:  Range{Start: 0.0, Stop: 0.5, Step: 0.5},
		MaxDist: Range{Start: 200, Stop: 300, Step: 100},
		DCutoff: Range{Start: 10, Stop: 50, Step: 10},
	}
	_, err := Enumerate(context.Background(), bGlobinMatrix(), axes, 0.01, testRun(), t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no combinations")
}

func TestJobPaths(t *testing.T) {
	t.Parallel()

	scratch := t.TempDir()
	job := Job{
		Combination: Combination{LowFreq: -1.0, UpFreq: 0.0, MaxDist: 250, DCutoffs: []int{100, 200}},
		Matrix:      bGlobinMatrix(),
		ScratchRoot: scratch,
	}

	matrixDir := filepath.Join("testdata", "Ery", "b-globin")
	require.Equal(t,
		filepath.Join(matrixDir, "opt_LF-1.0UF0.0C100-200Mdis250_5000bp.txt"),
		job.ReportPath())
	require.Equal(t,
		filepath.Join(matrixDir, "lammpsSteps", "jobArray_LF-1.0UF0.0Mdis250_5000bp"),
		job.MarkerDir())
	require.Equal(t,
		filepath.Join(scratch, "Ery_b-globin_LF-1.0UF0.0C100-200Mdis250_5000bp"),
		job.ScratchPath())
}
