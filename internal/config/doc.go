// Package config defines the static endpoint settings and helpers to load,
// validate and save them in YAML format.
//
// Settings are read once at startup; there is no hot reload. Validate fills
// in defaults for every optional key so callers can rely on non-zero values.
package config
