// Package logging wires slog handlers for the portal.
//
// It offers two output formats: a console handler that renders
// timestamp/level/component prefixes with flattened key=value pairs, and a
// JSON handler for machine ingestion. Helpers derive per-run loggers from
// configuration, attach component names, and lift request-scoped fields
// (TDoc, document, stage, run) out of a context.Context so call sites never
// repeat them by hand.
package logging
