// Package engine invokes the external modelling engine for one job. The
// invocation is fire-and-forget at the orchestration level: outcome is
// discovered later by inspecting the filesystem, never by trusting an exit
// code, because multi-day jobs may be handed to a batch scheduler and must
// survive restarts of the orchestrator itself.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chromosweep/chromosweep/internal/ctxlog"
	"github.com/chromosweep/chromosweep/internal/sweep"
)

// Engine dispatches a single job. Implementations may block for the full
// duration of the simulation; callers treat the call as a potentially
// long-running external operation, not a quick syscall.
type Engine interface {
	Dispatch(ctx context.Context, job sweep.Job) error
}

// DispatchError reports an invocation that failed to start at all (missing
// executable, bad arguments). The job stays eligible for retry like any
// other non-completing job.
type DispatchError struct {
	JobID string
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatching job %s: %v", e.JobID, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// CommandEngine runs the modelling engine as an external process.
type CommandEngine struct {
	// Bin is the engine executable, resolved via PATH if not absolute.
	Bin string
}

// NewCommandEngine returns an engine invoking the given executable.
func NewCommandEngine(bin string) *CommandEngine {
	return &CommandEngine{Bin: bin}
}

// Dispatch creates the job's scratch directory and runs the engine to
// completion. A process that started but exited non-zero is logged and
// reported as success here: whether the job actually finished is judged
// solely by its marker directory.
func (e *CommandEngine) Dispatch(ctx context.Context, job sweep.Job) error {
	logger := ctxlog.FromContext(ctx).With("job", job.ID(), "cell", job.Matrix.Cell, "region", job.Matrix.Region)

	if err := os.MkdirAll(job.ScratchPath(), 0o755); err != nil {
		return &DispatchError{JobID: job.ID(), Err: fmt.Errorf("creating scratch dir: %w", err)}
	}

	cuts := make([]string, len(job.DCutoffs))
	for i, d := range job.DCutoffs {
		cuts[i] = strconv.Itoa(d)
	}
	args := []string{
		"--matrix", job.Matrix.Path,
		"--lowfreq", sweep.FormatFreq(job.LowFreq),
		"--upfreq", sweep.FormatFreq(job.UpFreq),
		"--maxdist", strconv.Itoa(job.MaxDist),
		"--dcutoff", strings.Join(cuts, ","),
		"--nmodels", strconv.Itoa(job.NModels),
		"--cpus", strconv.Itoa(job.CPUs),
		"--max-time", job.MaxJobTime.String(),
		"--scratch", job.ScratchPath(),
		"--outdir", filepath.Dir(job.ReportPath()),
	}

	logger.Info("Dispatching modelling job.", "bin", e.Bin)
	logger.Debug("Engine invocation.", "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, e.Bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			// The engine started and failed or hit its internal budget.
			// Partial model production surfaces here too; completion is
			// still decided by the marker directory alone.
			logger.Warn("Engine exited non-zero.", "code", exit.ExitCode(), "output", tail(out))
			return nil
		}
		return &DispatchError{JobID: job.ID(), Err: err}
	}

	logger.Debug("Engine invocation returned.", "output", tail(out))
	return nil
}

// tail keeps logs bounded when the engine is chatty.
func tail(out []byte) string {
	const keep = 512
	s := strings.TrimSpace(string(out))
	if len(s) > keep {
		s = "..." + s[len(s)-keep:]
	}
	return s
}
