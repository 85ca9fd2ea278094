// Package config loads, normalizes, and validates pipedeck configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PIPEDECK_STATE_DIR. An optional .env file beside the config file is read
// before the environment fallbacks are applied. The Config type centralizes
// every knob the CLI, the HTTP service, and the player need, so the catalog
// backend, backup mirror, and engine binaries are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
