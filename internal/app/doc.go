// Package app wires the campaign components together and owns the
// application lifecycle: logger construction, configuration loading, and
// the scan → enumerate → estimate → dispatch → retry → reclaim sequence.
package app
