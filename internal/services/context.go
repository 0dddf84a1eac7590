package services

import "context"

type contextKey string

const (
	tdocKey     contextKey = "tdoc"
	documentKey contextKey = "document"
	stageKey    contextKey = "stage"
	runIDKey    contextKey = "run_id"
)

// WithTDoc annotates context with the artifact identifier being processed.
func WithTDoc(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, tdocKey, id)
}

// TDocFromContext extracts the artifact identifier if present.
func TDocFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(tdocKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithDocument annotates context with the source document name during
// conversion.
func WithDocument(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, documentKey, name)
}

// DocumentFromContext returns the source document name if present.
func DocumentFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(documentKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
