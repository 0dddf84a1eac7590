// Package artifacts owns the on-disk layout of pipeline outputs and the
// completion predicates derived from it.
//
// The filesystem is the pipeline's only ledger: a stage consults the store
// to decide whether an item's work product already exists, and workers that
// fail remove whatever they partially wrote so the predicates stay truthful.
// All path construction lives here so no worker invents its own naming.
//
// Layout under the configured root:
//
//	downloads/{id}.zip           archive per TDoc
//	extracted/{id}/              archive contents per TDoc
//	output/html/{id}_{base}.html HTML rendition per document
//	output/markdown/{id}_{base}.md Markdown rendition per document
package artifacts
