// Package hcl provides the concrete HCL implementation of the
// config.Loader interface. It owns all file parsing and HCL-to-model
// translation; the rest of the application only ever sees the agnostic
// config.Campaign.
package hcl
