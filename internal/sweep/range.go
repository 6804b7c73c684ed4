package sweep

import "fmt"

// Range describes one sweep axis as an inclusive-start, exclusive-stop
// stepped sequence of values.
type Range struct {
	Start float64
	Stop  float64
	Step  float64
}

// Validate rejects degenerate axes. A range that would enumerate zero
// values is a configuration mistake, never a silent no-op.
func (r Range) Validate(axis string) error {
	if r.Step <= 0 {
		return fmt.Errorf("axis %s: step must be positive, got %g", axis, r.Step)
	}
	if r.Start >= r.Stop {
		return fmt.Errorf("axis %s: start %g must be below stop %g", axis, r.Start, r.Stop)
	}
	return nil
}

// Values enumerates the axis. An invalid range yields nil; callers are
// expected to have validated first.
func (r Range) Values() []float64 {
	if r.Step <= 0 || r.Start >= r.Stop {
		return nil
	}
	var vals []float64
	// Index-based stepping avoids accumulating float error over long axes.
	for i := 0; ; i++ {
		v := r.Start + float64(i)*r.Step
		if v >= r.Stop {
			break
		}
		vals = append(vals, v)
	}
	return vals
}

// Count returns the number of values the axis enumerates.
func (r Range) Count() int {
	return len(r.Values())
}
