// Package config loads and validates the TOML configuration for paddock.
// Load resolves the config path, applies defaults, expands ~ in every path
// field, and validates the result before anything else starts.
package config
