package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chromosweep/chromosweep/internal/ctxlog"
	"github.com/chromosweep/chromosweep/internal/fsutil"
)

// Catalog is the result of one scan: every matrix found under the root,
// plus aggregate lookups keyed by region.
type Catalog struct {
	Matrices []Matrix

	// RegionPaths maps a region to every matrix path found for it across
	// cells. RegionParticles is resolved once per region; cells sharing a
	// region are assumed to share its extent and resolution.
	RegionPaths     map[string][]string
	RegionParticles map[string]int
}

// Scan walks the root directory and builds a Catalog from every file whose
// name starts with prefix. Malformed filenames are skipped with a warning,
// never fatal. The traversal is read-only.
func Scan(ctx context.Context, root, prefix string) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := fsutil.FindFilesByPrefix(root, prefix)
	if err != nil {
		return nil, fmt.Errorf("scanning matrix root %s: %w", root, err)
	}

	cat := &Catalog{
		RegionPaths:     make(map[string][]string),
		RegionParticles: make(map[string]int),
	}
	for _, path := range paths {
		m, err := parseName(filepath.Base(path), prefix)
		if err != nil {
			logger.Warn("Skipping matrix with unparsable name.", "path", path, "error", err)
			continue
		}
		m.Path = path
		cat.Matrices = append(cat.Matrices, m)
		cat.RegionPaths[m.Region] = append(cat.RegionPaths[m.Region], path)
		if _, seen := cat.RegionParticles[m.Region]; !seen {
			cat.RegionParticles[m.Region] = m.ParticleCount()
		}
	}

	logger.Debug("Matrix scan finished.", "root", root, "matrices", len(cat.Matrices), "regions", len(cat.RegionPaths))
	return cat, nil
}

// parseName splits a matrix filename of the shape
// {prefix}_{cell}_{region}_{chrom}-{start}-{end}_{resolution}bp
// into its identity fields.
func parseName(name, prefix string) (Matrix, error) {
	fields := strings.Split(name, "_")
	if len(fields) != 5 {
		return Matrix{}, fmt.Errorf("expected 5 underscore-separated fields, got %d", len(fields))
	}
	if fields[0] != prefix {
		return Matrix{}, fmt.Errorf("name does not start with prefix %q", prefix)
	}

	locus := strings.Split(fields[3], "-")
	if len(locus) != 3 {
		return Matrix{}, fmt.Errorf("locus %q: expected chrom-start-end", fields[3])
	}
	start, err := strconv.Atoi(locus[1])
	if err != nil {
		return Matrix{}, fmt.Errorf("locus start %q: %w", locus[1], err)
	}
	end, err := strconv.Atoi(locus[2])
	if err != nil {
		return Matrix{}, fmt.Errorf("locus end %q: %w", locus[2], err)
	}

	resField := strings.TrimSuffix(fields[4], "bp")
	if resField == fields[4] {
		return Matrix{}, fmt.Errorf("resolution %q: missing bp suffix", fields[4])
	}
	res, err := strconv.Atoi(resField)
	if err != nil {
		return Matrix{}, fmt.Errorf("resolution %q: %w", resField, err)
	}
	if res <= 0 {
		return Matrix{}, fmt.Errorf("resolution must be positive, got %d", res)
	}
	if end <= start {
		return Matrix{}, fmt.Errorf("region end %d not after start %d", end, start)
	}

	return Matrix{
		Cell:         fields[1],
		Region:       fields[2],
		Chromosome:   locus[0],
		Start:        start,
		End:          end,
		ResolutionBp: res,
	}, nil
}
