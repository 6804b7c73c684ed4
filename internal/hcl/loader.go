package hcl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/chromosweep/chromosweep/internal/config"
	"github.com/chromosweep/chromosweep/internal/ctxlog"
	"github.com/chromosweep/chromosweep/internal/sweep"
)

// Loader reads a campaign definition from an HCL file.
type Loader struct{}

// NewLoader creates a new HCL campaign loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileSchema mirrors the top level of a campaign file.
type fileSchema struct {
	Campaign *campaignBlock `hcl:"campaign,block"`
}

type campaignBlock struct {
	BasePath    string `hcl:"base_path"`
	Prefix      string `hcl:"prefix"`
	ScratchPath string `hcl:"scratch_path"`
	EngineBin   string `hcl:"engine_bin"`
	LedgerPath  string `hcl:"ledger_path,optional"`

	LowFreq *rangeBlock `hcl:"lowfreq,block"`
	UpFreq  *rangeBlock `hcl:"upfreq,block"`
	MaxDist *rangeBlock `hcl:"maxdist,block"`
	DCutoff *rangeBlock `hcl:"dcutoff,block"`

	Run *runBlock `hcl:"run,block"`
}

type rangeBlock struct {
	Start float64 `hcl:"start"`
	Stop  float64 `hcl:"stop"`
	Step  float64 `hcl:"step"`
}

type runBlock struct {
	CPUs        int      `hcl:"cpus"`
	NModels     int      `hcl:"nmodels"`
	MaxJobTime  string   `hcl:"max_job_time"`
	MaxAttempts *int     `hcl:"max_attempts,optional"`
	RetryDelay  *string  `hcl:"retry_delay,optional"`
	Scale       *float64 `hcl:"scale,optional"`
}

// Load parses, translates, and validates the campaign file at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Campaign, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading campaign file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}

	var fs fileSchema
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &fs); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
	}
	if fs.Campaign == nil {
		return nil, fmt.Errorf("%s: missing campaign block", path)
	}

	campaign, err := translate(fs.Campaign)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := campaign.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Campaign loaded.", "base_path", campaign.BasePath, "prefix", campaign.Prefix)
	return campaign, nil
}

// translate converts the HCL schema into the agnostic model, applying
// defaults for the optional run controls.
func translate(b *campaignBlock) (*config.Campaign, error) {
	for name, blk := range map[string]*rangeBlock{
		"lowfreq": b.LowFreq, "upfreq": b.UpFreq, "maxdist": b.MaxDist, "dcutoff": b.DCutoff,
	} {
		if blk == nil {
			return nil, fmt.Errorf("missing %s block", name)
		}
	}
	if b.Run == nil {
		return nil, fmt.Errorf("missing run block")
	}

	maxJobTime, err := time.ParseDuration(b.Run.MaxJobTime)
	if err != nil {
		return nil, fmt.Errorf("run.max_job_time %q: %w", b.Run.MaxJobTime, err)
	}

	c := &config.Campaign{
		BasePath:    b.BasePath,
		Prefix:      b.Prefix,
		ScratchPath: b.ScratchPath,
		EngineBin:   b.EngineBin,
		LedgerPath:  b.LedgerPath,
		Axes: sweep.Axes{
			LowFreq: toRange(b.LowFreq),
			UpFreq:  toRange(b.UpFreq),
			MaxDist: toRange(b.MaxDist),
			DCutoff: toRange(b.DCutoff),
		},
		Scale: config.DefaultScale,
		Run: sweep.RunControls{
			CPUs:       b.Run.CPUs,
			NModels:    b.Run.NModels,
			MaxJobTime: maxJobTime,
		},
		MaxAttempts: config.DefaultMaxAttempts,
	}
	if b.Run.MaxAttempts != nil {
		c.MaxAttempts = *b.Run.MaxAttempts
	}
	if b.Run.Scale != nil {
		c.Scale = *b.Run.Scale
	}
	if b.Run.RetryDelay != nil {
		delay, err := time.ParseDuration(*b.Run.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("run.retry_delay %q: %w", *b.Run.RetryDelay, err)
		}
		c.RetryDelay = delay
	}
	return c, nil
}

func toRange(b *rangeBlock) sweep.Range {
	return sweep.Range{Start: b.Start, Stop: b.Stop, Step: b.Step}
}

// evalContext exposes the process environment to campaign expressions as
// env.VARNAME, so paths can be parameterized per cluster.
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
	}
}
