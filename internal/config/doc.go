// Package config defines the format-agnostic campaign model and the Loader
// interface for reading it from a configuration source. The concrete HCL
// implementation lives in a separate package; nothing outside the loader
// touches raw configuration syntax.
package config
