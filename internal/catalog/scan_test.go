package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeMatrix creates an empty matrix file under root at cell/region/name.
func writeMatrix(t *testing.T, root, cell, region, name string) string {
	t.Helper()
	dir := filepath.Join(root, cell, region)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func TestScan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	eryPath := writeMatrix(t, root, "Ery", "b-globin", "Matrix_Ery_b-globin_chr11-4615000-6175000_5000bp")
	mkPath := writeMatrix(t, root, "Mk", "b-globin", "Matrix_Mk_b-globin_chr11-4615000-6175000_5000bp")
	tcellPath := writeMatrix(t, root, "nCD4", "Sox2", "Matrix_nCD4_Sox2_chr3-34540000-35040000_5000bp")

	cat, err := Scan(context.Background(), root, "Matrix")
	require.NoError(t, err)
	require.Len(t, cat.Matrices, 3)

	byPath := map[string]Matrix{}
	for _, m := range cat.Matrices {
		byPath[m.Path] = m
	}

	ery := byPath[eryPath]
	require.Equal(t, "Ery", ery.Cell)
	require.Equal(t, "b-globin", ery.Region)
	require.Equal(t, "chr11", ery.Chromosome)
	require.Equal(t, 4615000, ery.Start)
	require.Equal(t, 6175000, ery.End)
	require.Equal(t, 5000, ery.ResolutionBp)
	require.Equal(t, 312, ery.ParticleCount())

	require.ElementsMatch(t, []string{eryPath, mkPath}, cat.RegionPaths["b-globin"])
	require.Equal(t, []string{tcellPath}, cat.RegionPaths["Sox2"])

	// Particle count is resolved once per region and shared across cells.
	require.Equal(t, 312, cat.RegionParticles["b-globin"])
	require.Equal(t, 100, cat.RegionParticles["Sox2"])
}

func TestScanSkipsMalformed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	good := writeMatrix(t, root, "Ery", "b-globin", "Matrix_Ery_b-globin_chr11-4615000-6175000_5000bp")
	writeMatrix(t, root, "Ery", "b-globin", "Matrix_Ery_b-globin_chr11-4615000-6175000")          // missing resolution field
	writeMatrix(t, root, "Ery", "b-globin", "Matrix_Ery_b-globin_chr11-abc-6175000_5000bp")       // non-numeric coordinate
	writeMatrix(t, root, "Ery", "b-globin", "Matrix_Ery_b-globin_chr11-4615000-6175000_5000kb")   // wrong unit suffix
	writeMatrix(t, root, "Ery", "b-globin", "Matrix_Ery_b-globin_extra_chr11-0-1000_5000bp")      // too many fields
	writeMatrix(t, root, "Ery", "b-globin", "Matrix_Ery_b-globin_chr11-6175000-4615000_5000bp")   // end before start

	cat, err := Scan(context.Background(), root, "Matrix")
	require.NoError(t, err, "malformed entries must be skipped, not fatal")
	require.Len(t, cat.Matrices, 1)
	require.Equal(t, good, cat.Matrices[0].Path)
}

func TestScanIgnoresOtherPrefixes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeMatrix(t, root, "Ery", "b-globin", "Matrix_Ery_b-globin_chr11-4615000-6175000_5000bp")
	writeMatrix(t, root, "Ery", "b-globin", "Norm_Ery_b-globin_chr11-4615000-6175000_5000bp")

	cat, err := Scan(context.Background(), root, "Matrix")
	require.NoError(t, err)
	require.Len(t, cat.Matrices, 1)
}

func TestScanUnreadableRoot(t *testing.T) {
	t.Parallel()

	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), "Matrix")
	require.Error(t, err)
}
