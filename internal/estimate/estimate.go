// Package estimate projects the wall-clock cost of a sweep before any
// compute is committed. The projection is advisory: it is surfaced so an
// operator can abort or resize parallelism, it never gates dispatch.
package estimate

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// CostModel maps a particle count to the expected wall time of a single
// model. Injectable so the fit can be recalibrated without touching
// orchestration logic; implementations must be monotonically non-decreasing
// in particle count.
type CostModel func(particles int) time.Duration

// DefaultCostModel is a power-law fit of observed per-model run times on
// the reference cluster. Around 940 particles it projects roughly 800s.
func DefaultCostModel(particles int) time.Duration {
	if particles <= 0 {
		return 0
	}
	secs := 0.0105 * math.Pow(float64(particles), 1.65)
	if secs < 30 {
		secs = 30
	}
	return time.Duration(secs * float64(time.Second))
}

// Estimate is the projected cost of one campaign-wide sweep pass.
type Estimate struct {
	Combinations int
	CellCount    int
	NModels      int
	CPUs         int
	PerModel     time.Duration
}

// New sizes a sweep: combinations per matrix, the number of cells sharing
// the region, models per combination, and the per-job parallelism budget.
func New(model CostModel, particles, combinations, cellCount, nmodels, cpus int) Estimate {
	if model == nil {
		model = DefaultCostModel
	}
	if cellCount < 1 {
		cellCount = 1
	}
	if cpus < 1 {
		cpus = 1
	}
	return Estimate{
		Combinations: combinations,
		CellCount:    cellCount,
		NModels:      nmodels,
		CPUs:         cpus,
		PerModel:     model(particles),
	}
}

// TotalModels is the number of models the sweep will build across all
// cells sharing the region.
func (e Estimate) TotalModels() int {
	return e.Combinations * e.CellCount * e.NModels
}

// Total is the single-worker wall-clock projection.
func (e Estimate) Total() time.Duration {
	return time.Duration(e.TotalModels()) * e.PerModel
}

// PerWorker divides the projection across the configured parallelism.
func (e Estimate) PerWorker() time.Duration {
	return e.Total() / time.Duration(e.CPUs)
}

// String renders the projection for the operator.
func (e Estimate) String() string {
	return fmt.Sprintf("%s models (%d combinations × %d cells × %d models): %s on one cpu, %s across %d cpus",
		humanize.Comma(int64(e.TotalModels())), e.Combinations, e.CellCount, e.NModels,
		span(e.Total()), span(e.PerWorker()), e.CPUs)
}

// span renders a duration with a coarse humanized qualifier for anything
// longer than an hour, where exact seconds stop being informative.
func span(d time.Duration) string {
	if d < time.Hour {
		return d.String()
	}
	now := time.Now()
	return fmt.Sprintf("%s (~%s)", d.Round(time.Minute), humanize.RelTime(now, now.Add(d), "", ""))
}
