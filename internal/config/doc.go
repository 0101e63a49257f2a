// Package config loads, normalizes, and validates venuebook configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VENUEBOOK_ADMIN_PASSWORD. The Config type centralizes every knob the store,
// the booking service, and the CLI need, so data/asset/log directories and
// booking policies are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical policy names, and clear validation errors.
package config
