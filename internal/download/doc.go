// Package download fetches TDoc archives into the artifacts store.
//
// The worker is idempotent against the store: archives already present at
// full size are skipped, and any failure removes the partial file so the
// next run retries from a clean slate.
package download
