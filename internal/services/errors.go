package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport marks network-origin failures in the download stage.
	ErrTransport = errors.New("transport error")
	// ErrArchive marks malformed or unreadable archives in the extraction stage.
	ErrArchive = errors.New("archive error")
	// ErrConversion marks documents the rendering engine rejected or failed on.
	ErrConversion = errors.New("conversion error")
	// ErrParse marks remote payloads that could not be interpreted (manifest listing).
	ErrParse = errors.New("parse error")
	// ErrSetup marks fatal pre-stage failures that abort the whole run.
	ErrSetup = errors.New("setup error")

	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Detail carries the classification and trimmed message extracted from a
// wrapped stage error, used when recording per-item failures.
type Detail struct {
	Kind    string
	Message string
}

// Details classifies err against the sentinel markers and strips the marker
// prefix from its message so reports show the stage detail, not the tag.
func Details(err error) Detail {
	if err == nil {
		return Detail{}
	}
	kind := "error"
	var marker error
	switch {
	case errors.Is(err, ErrTransport):
		kind, marker = "transport", ErrTransport
	case errors.Is(err, ErrArchive):
		kind, marker = "archive", ErrArchive
	case errors.Is(err, ErrConversion):
		kind, marker = "conversion", ErrConversion
	case errors.Is(err, ErrParse):
		kind, marker = "parse", ErrParse
	case errors.Is(err, ErrSetup):
		kind, marker = "setup", ErrSetup
	case errors.Is(err, ErrConfiguration):
		kind, marker = "configuration", ErrConfiguration
	case errors.Is(err, ErrValidation):
		kind, marker = "validation", ErrValidation
	case errors.Is(err, ErrTransient):
		kind, marker = "transient", ErrTransient
	}
	message := strings.TrimSpace(err.Error())
	if marker != nil {
		message = strings.TrimSpace(strings.TrimPrefix(message, marker.Error()+":"))
	}
	return Detail{Kind: kind, Message: message}
}

// IsFatal reports whether err belongs to the setup class that must abort the
// run before or between stages rather than fail a single item.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSetup) || errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
