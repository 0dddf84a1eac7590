// Package manifest discovers the TDoc archives a pipeline run will process.
//
// The Fetcher scrapes the configured 3GPP meeting listing page, matches
// anchor hrefs against the archive filename pattern, and returns the
// identifiers (filename stems) in order of first appearance with duplicates
// dropped. Transport and parse failures carry the corresponding error
// markers; an empty result is returned as-is and left for the orchestrator
// to judge.
package manifest
