// Package config loads, normalizes, and validates the mediamend TOML
// configuration file.
package config
