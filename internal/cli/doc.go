// Package cli defines the Cobra command tree for the wcms-modules CLI. Each
// file registers one top-level command (build, resolve, validate, list, etc.)
// with the root command. Commands delegate to internal packages for the
// pipeline itself and only handle flags, configuration, and output.
package cli
