package config

import "context"

// Loader is the interface for a format-specific campaign loader. Load
// reads the file at path, translates it into the agnostic model, and
// validates it; a returned error is always fatal to the run.
type Loader interface {
	Load(ctx context.Context, path string) (*Campaign, error)
}
