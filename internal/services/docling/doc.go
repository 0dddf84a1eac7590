// Package docling talks to a docling-serve instance to render documents.
//
// The conversion stage hands a source document to Render and receives both
// renditions (HTML and Markdown) from a single engine call, so the pair is
// always produced from the same conversion pass. Engine is the seam the
// pipeline depends on; Client is the HTTP implementation.
package docling
