package extract

import (
	"archive/zip"
	"io"
)

// Opener opens archives by path.
type Opener interface {
	Open(path string) (Archive, error)
}

// Archive is an open archive handle. Callers close it after reading.
type Archive interface {
	io.Closer
	Entries() []Entry
}

// Entry is a single member of an archive.
type Entry interface {
	Name() string
	IsDir() bool
	Open() (io.ReadCloser, error)
}

// ZipOpener reads zip archives with the standard library reader.
type ZipOpener struct{}

func (ZipOpener) Open(path string) (Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return zipArchive{rc: rc}, nil
}

type zipArchive struct {
	rc *zip.ReadCloser
}

func (a zipArchive) Close() error { return a.rc.Close() }

func (a zipArchive) Entries() []Entry {
	entries := make([]Entry, 0, len(a.rc.File))
	for _, file := range a.rc.File {
		entries = append(entries, zipEntry{file: file})
	}
	return entries
}

type zipEntry struct {
	file *zip.File
}

func (e zipEntry) Name() string { return e.file.Name }

func (e zipEntry) IsDir() bool { return e.file.FileInfo().IsDir() }

func (e zipEntry) Open() (io.ReadCloser, error) { return e.file.Open() }
