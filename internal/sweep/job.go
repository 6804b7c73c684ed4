package sweep

import (
	"path/filepath"
	"time"

	"github.com/chromosweep/chromosweep/internal/catalog"
)

// markerParent is the directory the modelling engine nests its working
// directories under, relative to the matrix directory.
const markerParent = "lammpsSteps"

// Combination is one point in the cartesian product, plus the run controls
// copied from the sweep configuration. Immutable after creation.
type Combination struct {
	LowFreq  float64
	UpFreq   float64
	MaxDist  int
	DCutoffs []int

	CPUs       int
	NModels    int
	MaxJobTime time.Duration
}

// Job binds a Combination to a specific matrix plus the scratch root the
// engine may use for intermediate state. All paths a job touches are
// derived from its identifier; no completion state lives in memory.
type Job struct {
	Combination
	Matrix      catalog.Matrix
	ScratchRoot string
}

// ID returns the canonical job identifier, bijective with the parameter
// tuple within a sweep.
func (j Job) ID() string {
	return FormatID(j.LowFreq, j.UpFreq, j.DCutoffs, j.MaxDist, j.Matrix.ResolutionBp)
}

// ReportPath is where the engine writes the correlation report for this
// job, next to the matrix it was modelled from.
func (j Job) ReportPath() string {
	return filepath.Join(filepath.Dir(j.Matrix.Path), "opt_"+j.ID()+".txt")
}

// MarkerDir is the engine's working directory for this job. Its presence
// after a dispatch attempt means the job never started, crashed, or is
// still running; the engine removes it when it finishes.
func (j Job) MarkerDir() string {
	stem := FormatMarkerID(j.LowFreq, j.UpFreq, j.MaxDist, j.Matrix.ResolutionBp)
	return filepath.Join(filepath.Dir(j.Matrix.Path), markerParent, "jobArray_"+stem)
}

// ScratchPath is the job's private subdirectory of the scratch root.
// Identifier-derived naming keeps concurrent jobs collision-free without
// locking.
func (j Job) ScratchPath() string {
	return filepath.Join(j.ScratchRoot, j.Matrix.Cell+"_"+j.Matrix.Region+"_"+j.ID())
}

// Sweep is the full job set for one (cell, region) matrix.
type Sweep struct {
	Cell   string
	Region string
	Jobs   []Job
}
