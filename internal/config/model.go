package config

import (
	"fmt"
	"time"

	"github.com/chromosweep/chromosweep/internal/sweep"
)

// DefaultScale is the nm-per-bp conversion applied when computing the
// distance-cutoff floor from the matrix resolution.
const DefaultScale = 0.01

// DefaultMaxAttempts bounds dispatch passes per sweep unless overridden.
const DefaultMaxAttempts = 10

// Campaign is the unified representation of one sweep campaign: where the
// matrices live, the four axis ranges, and the run controls copied onto
// every job.
type Campaign struct {
	BasePath    string
	Prefix      string
	ScratchPath string
	EngineBin   string
	// LedgerPath enables the SQLite campaign history when set.
	LedgerPath string

	Axes  sweep.Axes
	Scale float64

	Run         sweep.RunControls
	MaxAttempts int
	// RetryDelay is the pause between dispatch passes of one sweep.
	RetryDelay time.Duration
}

// ValidationError is fatal to the whole run: degenerate ranges and missing
// paths are surfaced immediately, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the campaign for the error classes that must abort the
// run before any compute is committed.
func (c *Campaign) Validate() error {
	switch {
	case c.BasePath == "":
		return &ValidationError{Field: "base_path", Reason: "required"}
	case c.Prefix == "":
		return &ValidationError{Field: "prefix", Reason: "required"}
	case c.ScratchPath == "":
		return &ValidationError{Field: "scratch_path", Reason: "required"}
	case c.EngineBin == "":
		return &ValidationError{Field: "engine_bin", Reason: "required"}
	}

	if err := c.Axes.Validate(); err != nil {
		return &ValidationError{Field: "sweep ranges", Reason: err.Error()}
	}
	if c.Scale <= 0 {
		return &ValidationError{Field: "run.scale", Reason: fmt.Sprintf("must be positive, got %g", c.Scale)}
	}
	if c.Run.CPUs < 1 {
		return &ValidationError{Field: "run.cpus", Reason: fmt.Sprintf("must be at least 1, got %d", c.Run.CPUs)}
	}
	if c.Run.NModels < 1 {
		return &ValidationError{Field: "run.nmodels", Reason: fmt.Sprintf("must be at least 1, got %d", c.Run.NModels)}
	}
	if c.Run.MaxJobTime <= 0 {
		return &ValidationError{Field: "run.max_job_time", Reason: "must be a positive duration"}
	}
	if c.MaxAttempts < 1 {
		return &ValidationError{Field: "run.max_attempts", Reason: fmt.Sprintf("must be at least 1, got %d", c.MaxAttempts)}
	}
	return nil
}
