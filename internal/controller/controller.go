// Package controller drives a sweep to a terminal state: it dispatches
// every job, re-derives the incomplete set from filesystem truth after each
// pass, and retries incomplete jobs up to a bounded attempt budget. No
// completion state is held in memory, so a restarted orchestrator rebuilds
// the correct picture from disk alone.
package controller

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go"

	"github.com/chromosweep/chromosweep/internal/ctxlog"
	"github.com/chromosweep/chromosweep/internal/engine"
	"github.com/chromosweep/chromosweep/internal/sweep"
)

// State is the sweep lifecycle position.
type State int

const (
	Pending State = iota
	InFlight
	PartiallyComplete
	Complete
	Exhausted
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case InFlight:
		return "in-flight"
	case PartiallyComplete:
		return "partially-complete"
	case Complete:
		return "complete"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultMaxAttempts bounds dispatch passes per sweep when the caller does
// not configure a budget.
const DefaultMaxAttempts = 10

// Controller re-dispatches incomplete jobs until a sweep completes or the
// attempt budget runs out.
type Controller struct {
	Engine      engine.Engine
	MaxAttempts int
	// Delay between dispatch passes. Zero means immediate re-dispatch,
	// which is what tests want; production configs set a breather.
	Delay time.Duration
}

// New returns a Controller with the default attempt budget.
func New(eng engine.Engine) *Controller {
	return &Controller{Engine: eng, MaxAttempts: DefaultMaxAttempts}
}

// Result is the terminal report for one sweep. Exhausted sweeps carry the
// jobs that never completed so the caller can report them; they are never
// silently dropped.
type Result struct {
	State      State
	Attempts   int
	Incomplete []sweep.Job
}

// IncompleteError signals a pass that left jobs unfinished. It is the
// retryable error the bounded loop runs on and is never surfaced to
// callers directly.
type IncompleteError struct {
	Remaining int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%d jobs still incomplete", e.Remaining)
}

// Run drives one sweep to a terminal state. The returned error is reserved
// for context cancellation; an exhausted budget is reported through
// Result.State, not as an error, so sibling sweeps keep their forward
// progress.
func (c *Controller) Run(ctx context.Context, sw *sweep.Sweep) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("cell", sw.Cell, "region", sw.Region)
	maxAttempts := c.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	res := &Result{State: Pending}

	// Jobs whose correlation report already exists finished in an earlier
	// orchestrator run; re-dispatching them would waste the budget.
	pending := withoutReported(sw.Jobs)
	if skipped := len(sw.Jobs) - len(pending); skipped > 0 {
		logger.Info("Skipping jobs with existing correlation reports.", "skipped", skipped)
	}

	// An empty sweep is trivially complete and consumes no attempt.
	if len(pending) == 0 {
		res.State = Complete
		return res, nil
	}

	incomplete := pending
	err := retry.Do(
		func() error {
			res.Attempts++
			res.State = InFlight
			logger.Info("Dispatch pass starting.", "attempt", res.Attempts, "jobs", len(incomplete))

			// A job whose invocation never started leaves no marker, so it
			// is carried forward explicitly rather than read as complete.
			var dispatched, failed []sweep.Job
			for _, job := range incomplete {
				if err := c.Engine.Dispatch(ctx, job); err != nil {
					if ctx.Err() != nil {
						return retry.Unrecoverable(ctx.Err())
					}
					logger.Error("Dispatch failed.", "job", job.ID(), "error", err)
					failed = append(failed, job)
					continue
				}
				dispatched = append(dispatched, job)
			}

			incomplete = append(withMarkers(dispatched), failed...)
			if len(incomplete) == 0 {
				res.State = Complete
				return nil
			}
			res.State = PartiallyComplete
			res.Incomplete = incomplete
			return &IncompleteError{Remaining: len(incomplete)}
		},
		retry.Attempts(uint(maxAttempts)),
		retry.Delay(c.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("Sweep pass left incomplete jobs, retrying.", "attempt", n+1, "error", err)
		}),
	)

	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.State = Exhausted
		logger.Warn("Retry budget exhausted with incomplete jobs.",
			"attempts", res.Attempts, "incomplete", len(res.Incomplete))
		return res, nil
	}

	res.Incomplete = nil
	logger.Info("Sweep complete.", "attempts", res.Attempts)
	return res, nil
}

// withMarkers returns the subset of jobs whose marker directory still
// exists on disk, i.e. the jobs whose engine never started, crashed, or is
// still running.
func withMarkers(jobs []sweep.Job) []sweep.Job {
	var remaining []sweep.Job
	for _, job := range jobs {
		if _, err := os.Stat(job.MarkerDir()); err == nil {
			remaining = append(remaining, job)
		}
	}
	return remaining
}

// withoutReported filters out jobs whose correlation report is already on
// disk.
func withoutReported(jobs []sweep.Job) []sweep.Job {
	var pending []sweep.Job
	for _, job := range jobs {
		if _, err := os.Stat(job.ReportPath()); err == nil {
			continue
		}
		pending = append(pending, job)
	}
	return pending
}
