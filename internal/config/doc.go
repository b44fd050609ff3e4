// Package config manages settings for the registry builder. Values come from
// command-line flags, WCMS_MODULES_* environment variables, an optional YAML
// file at ~/.wcms-modules/config.yaml, and built-in defaults, in that order.
package config
