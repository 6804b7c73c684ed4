// Package scratch reclaims transient working storage between sweeps. The
// scratch root itself is reused across sweeps and is never removed, only
// its immediate children.
package scratch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromosweep/chromosweep/internal/ctxlog"
)

// Reclaimer removes the contents of a scratch root. The removal function
// is injectable for tests that simulate unremovable entries.
type Reclaimer struct {
	Root      string
	removeAll func(path string) error
}

// New returns a Reclaimer for the given scratch root.
func New(root string) *Reclaimer {
	return &Reclaimer{Root: root, removeAll: os.RemoveAll}
}

// Reclaim deletes every immediate child of the root. A child that cannot
// be removed (permission error, concurrent writer) is logged and skipped;
// it never aborts cleanup of its siblings. Only an unreadable root is an
// error. Callers must only invoke this once no in-flight job depends on
// the scratch contents.
func (r *Reclaimer) Reclaim(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	entries, err := os.ReadDir(r.Root)
	if err != nil {
		return fmt.Errorf("reading scratch root %s: %w", r.Root, err)
	}

	removed := 0
	for _, entry := range entries {
		path := filepath.Join(r.Root, entry.Name())
		if err := r.removeAll(path); err != nil {
			logger.Warn("Could not reclaim scratch entry.", "path", path, "error", err)
			continue
		}
		removed++
	}

	logger.Debug("Scratch reclaimed.", "root", r.Root, "removed", removed, "total", len(entries))
	return nil
}
