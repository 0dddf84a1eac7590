// Package extract unpacks downloaded TDoc archives into per-identifier
// directories.
//
// Archives are opened before the destination directory is created, and any
// failure removes the destination entirely, so a directory under extracted/
// is either absent or holds a complete extraction. The archive format is
// abstracted behind the Opener port; the default reads zip files.
package extract
