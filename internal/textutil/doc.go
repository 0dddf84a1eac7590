// Package textutil normalizes document names taken from archive entries
// for safe, consistent use in output paths.
package textutil
