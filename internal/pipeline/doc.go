// Package pipeline drives a full portal run: fetch the document listing,
// then download, extract, and convert in stage order, fanning each stage
// out over a bounded worker pool.
//
// Item failures are recorded in the run report and never stop the batch;
// only setup failures (storage, preflight, an empty or unreachable
// listing) abort a run. Because completed work is recognized from the
// filesystem, an aborted or killed run is resumed by simply running again.
//
// The orchestrator assumes one run at a time against a given artifacts
// root. Nothing enforces this; concurrent runs would race on the same
// paths.
package pipeline
