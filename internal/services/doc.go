// Package services defines shared utilities consumed by the pipeline stage
// workers and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and artifact
//     identifiers for logging and correlation.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (transport vs archive vs conversion vs setup) uniform
//     across stages, and the Details extractor reports rely on.
//
// Use these helpers when wiring new stage logic so operational behaviour
// stays consistent across the pipeline.
package services
