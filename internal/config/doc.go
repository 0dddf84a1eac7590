// Package config loads, normalizes, and validates portal configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TDOC_DOCLING_URL. The Config type centralizes every knob the CLI needs,
// allowing the artifacts root, listing source, stage worker counts, and the
// conversion engine endpoint to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical document extensions, and clear validation
// errors.
package config
