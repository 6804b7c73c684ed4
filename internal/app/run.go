package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chromosweep/chromosweep/internal/catalog"
	"github.com/chromosweep/chromosweep/internal/controller"
	"github.com/chromosweep/chromosweep/internal/ctxlog"
	"github.com/chromosweep/chromosweep/internal/estimate"
	"github.com/chromosweep/chromosweep/internal/ledger"
	"github.com/chromosweep/chromosweep/internal/scratch"
	"github.com/chromosweep/chromosweep/internal/sweep"
)

// ErrSweepsExhausted reports that at least one sweep still had incomplete
// jobs after its retry budget. The rest of the campaign ran to its own
// terminal state; the caller maps this to a distinct exit code.
var ErrSweepsExhausted = errors.New("one or more sweeps exhausted their retry budget")

// Run executes the campaign: scan the catalog, enumerate and size every
// sweep, then drive each sweep to a terminal state and reclaim scratch
// storage behind it. Sweeps run sequentially; a sweep that exhausts its
// budget is reported and never stops its siblings.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	cat, err := catalog.Scan(ctx, a.campaign.BasePath, a.campaign.Prefix)
	if err != nil {
		return fmt.Errorf("failed to scan matrix catalog: %w", err)
	}
	if len(cat.Matrices) == 0 {
		a.logger.Warn("No matrices found, nothing to sweep.", "base_path", a.campaign.BasePath, "prefix", a.campaign.Prefix)
		return nil
	}
	a.logger.Info("Matrix catalog scanned.", "matrices", len(cat.Matrices), "regions", len(cat.RegionPaths))

	sweeps := make([]*sweep.Sweep, 0, len(cat.Matrices))
	for _, m := range cat.Matrices {
		sw, err := sweep.Enumerate(ctx, m, a.campaign.Axes, a.campaign.Scale, a.campaign.Run, a.campaign.ScratchPath)
		if err != nil {
			return fmt.Errorf("failed to enumerate sweep for %s/%s: %w", m.Cell, m.Region, err)
		}
		sweeps = append(sweeps, sw)
	}

	// Estimates are surfaced for every region before any compute is
	// committed, so an operator can abort or resize parallelism. They are
	// advisory and never gate dispatch.
	a.printEstimates(ctx, cat, sweeps)
	if a.cfg.EstimateOnly {
		a.logger.Info("Estimate-only run, skipping dispatch.")
		return nil
	}

	led, campaignID := a.openLedger(ctx)
	if led != nil {
		defer led.Close()
	}

	ctrl := &controller.Controller{
		Engine:      a.engine,
		MaxAttempts: a.campaign.MaxAttempts,
		Delay:       a.campaign.RetryDelay,
	}
	reclaimer := scratch.New(a.campaign.ScratchPath)

	exhausted := 0
	for _, sw := range sweeps {
		started := time.Now()
		res, err := ctrl.Run(ctx, sw)
		if err != nil {
			return fmt.Errorf("sweep %s/%s aborted: %w", sw.Cell, sw.Region, err)
		}
		if res.State == controller.Exhausted {
			exhausted++
			for _, job := range res.Incomplete {
				a.logger.Warn("Job never completed.", "cell", sw.Cell, "region", sw.Region, "job", job.ID())
			}
		}

		a.recordSweep(ctx, led, campaignID, sw, res, started)

		// Scratch is shared across the jobs of one orchestrator instance;
		// it is only reclaimed once no sweep job remains in flight.
		if err := reclaimer.Reclaim(ctx); err != nil && !errors.Is(err, os.ErrNotExist) {
			a.logger.Warn("Scratch reclaim failed.", "error", err)
		}
	}

	if exhausted > 0 {
		a.logger.Warn("Campaign finished with exhausted sweeps.", "exhausted", exhausted, "total", len(sweeps))
		return ErrSweepsExhausted
	}
	a.logger.Info("Campaign finished, all sweeps complete.", "sweeps", len(sweeps))
	return nil
}

// printEstimates logs one region-level projection per region: sweep
// cardinality times the number of cells sharing the region.
func (a *App) printEstimates(ctx context.Context, cat *catalog.Catalog, sweeps []*sweep.Sweep) {
	combosByRegion := map[string]int{}
	for _, sw := range sweeps {
		if _, seen := combosByRegion[sw.Region]; !seen {
			combosByRegion[sw.Region] = len(sw.Jobs)
		}
	}
	for region, combos := range combosByRegion {
		est := estimate.New(nil,
			cat.RegionParticles[region],
			combos,
			len(cat.RegionPaths[region]),
			a.campaign.Run.NModels,
			a.campaign.Run.CPUs,
		)
		a.logger.Info("Sweep projection.", "region", region, "estimate", est.String())
		fmt.Fprintf(a.outW, "%s: %s\n", region, est)
	}
}

// openLedger opens the optional campaign history. Ledger trouble is never
// fatal: the filesystem stays the source of truth.
func (a *App) openLedger(ctx context.Context) (*ledger.Ledger, string) {
	if a.campaign.LedgerPath == "" {
		return nil, ""
	}
	led, err := ledger.Open(a.campaign.LedgerPath)
	if err != nil {
		a.logger.Warn("Ledger unavailable, continuing without history.", "error", err)
		return nil, ""
	}
	campaignID, err := led.BeginCampaign(ctx, a.cfg.ConfigPath, a.campaign.BasePath)
	if err != nil {
		a.logger.Warn("Could not record campaign, continuing without history.", "error", err)
		led.Close()
		return nil, ""
	}
	return led, campaignID
}

func (a *App) recordSweep(ctx context.Context, led *ledger.Ledger, campaignID string, sw *sweep.Sweep, res *controller.Result, started time.Time) {
	if led == nil {
		return
	}
	err := led.RecordSweep(ctx, campaignID, sw.Cell, sw.Region,
		len(sw.Jobs), res.Attempts, res.State.String(), started, time.Now())
	if err != nil {
		a.logger.Warn("Could not record sweep in ledger.", "error", err)
	}
}
