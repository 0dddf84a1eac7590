// Package convert renders extracted documents into paired HTML and
// Markdown files.
//
// Both renditions come from a single engine pass and are treated as one
// unit: a document is complete only when both siblings exist, and any
// failure removes whichever sibling was written so reruns regenerate the
// pair together.
package convert
