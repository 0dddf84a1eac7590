package artifacts

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/yhsung/3gpp-tdoc-portal/internal/textutil"
)

// Document is one conversion unit: a recognized file inside an extracted
// archive, plus the basename its renditions will carry.
type Document struct {
	// TDoc is the owning archive identifier.
	TDoc string
	// Path is the absolute path of the source document.
	Path string
	// Base is the output basename component, unique within the TDoc.
	Base string
}

// EnumerateDocuments walks the extraction dir for id and returns one
// Document per file whose extension is a recognized document kind, ordered
// by path. Basenames are normalized for output naming; names that collide
// after normalization (or that differ only by directory or case) get a
// numeric suffix so no two documents share a rendition path.
func (s *Store) EnumerateDocuments(id string) ([]Document, error) {
	var docs []Document
	seen := make(map[string]int)

	err := filepath.WalkDir(s.ExtractDir(id), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, ok := s.kinds[ext]; !ok {
			return nil
		}

		base := textutil.NormalizeBaseName(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))
		key := strings.ToLower(base)
		seen[key]++
		if n := seen[key]; n > 1 {
			base = fmt.Sprintf("%s_%d", base, n)
		}

		docs = append(docs, Document{TDoc: id, Path: path, Base: base})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate documents for %s: %w", id, err)
	}
	return docs, nil
}
