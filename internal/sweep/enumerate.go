package sweep

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/chromosweep/chromosweep/internal/catalog"
	"github.com/chromosweep/chromosweep/internal/ctxlog"
)

// Axes holds the four sweep ranges.
type Axes struct {
	LowFreq Range
	UpFreq  Range
	MaxDist Range
	DCutoff Range
}

// Validate rejects any degenerate axis.
func (a Axes) Validate() error {
	if err := a.LowFreq.Validate("lowfreq"); err != nil {
		return err
	}
	if err := a.UpFreq.Validate("upfreq"); err != nil {
		return err
	}
	if err := a.MaxDist.Validate("maxdist"); err != nil {
		return err
	}
	return a.DCutoff.Validate("dcutoff")
}

// RunControls are copied verbatim onto every combination of a sweep.
type RunControls struct {
	CPUs       int
	NModels    int
	MaxJobTime time.Duration
}

// Enumerate produces the ordered cartesian product
// lowfreq × maxdist × dcutoff-subrange(maxdist) × upfreq for one matrix.
// The dcutoff values for a candidate maxdist m are those base-range values
// d satisfying 2·scale·resolution ≤ d < m; a maxdist whose sub-range is
// empty contributes no combinations. All surviving cutoffs ride a single
// combination so the engine evaluates them in one invocation.
//
// Ordering matters only for reproducible progress indices; it carries no
// correctness dependency.
func Enumerate(ctx context.Context, m catalog.Matrix, axes Axes, scale float64, run RunControls, scratchRoot string) (*Sweep, error) {
	if err := axes.Validate(); err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", scale)
	}
	logger := ctxlog.FromContext(ctx)

	floor := 2 * scale * float64(m.ResolutionBp)
	sw := &Sweep{Cell: m.Cell, Region: m.Region}

	for _, lf := range axes.LowFreq.Values() {
		for _, mdv := range axes.MaxDist.Values() {
			md := int(math.Round(mdv))
			cutoffs := dcutoffSubrange(axes.DCutoff, floor, float64(md))
			if len(cutoffs) == 0 {
				logger.Debug("maxdist admits no distance cutoffs, skipping.",
					"region", m.Region, "maxdist", md, "floor", floor)
				continue
			}
			for _, uf := range axes.UpFreq.Values() {
				sw.Jobs = append(sw.Jobs, Job{
					Combination: Combination{
						LowFreq:    lf,
						UpFreq:     uf,
						MaxDist:    md,
						DCutoffs:   cutoffs,
						CPUs:       run.CPUs,
						NModels:    run.NModels,
						MaxJobTime: run.MaxJobTime,
					},
					Matrix:      m,
					ScratchRoot: scratchRoot,
				})
			}
		}
	}

	if len(sw.Jobs) == 0 {
		return nil, fmt.Errorf("region %s: axes produce no combinations (dcutoff floor %g filtered every maxdist)", m.Region, floor)
	}
	logger.Debug("Sweep enumerated.", "cell", m.Cell, "region", m.Region, "combinations", len(sw.Jobs))
	return sw, nil
}

// dcutoffSubrange filters the base cutoff range against the floor and the
// candidate maxdist ceiling. The floor invariant 2·scale·resolution ≤ d < m
// holds for every value returned.
func dcutoffSubrange(base Range, floor, maxdist float64) []int {
	var cutoffs []int
	for _, d := range base.Values() {
		if d < floor || d >= maxdist {
			continue
		}
		cutoffs = append(cutoffs, int(math.Round(d)))
	}
	return cutoffs
}
