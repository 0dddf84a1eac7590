package docling

import "context"

// Rendition bundles the two outputs of one conversion pass.
type Rendition struct {
	HTML     []byte
	Markdown []byte
}

// Engine renders a source document into both renditions at once.
type Engine interface {
	Render(ctx context.Context, path string) (Rendition, error)
}
