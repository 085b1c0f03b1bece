// Package format handles per-extension content extraction for file
// translation. A Handler splits a file's content into translatable segments
// and reassembles the file from their translations; the batch coordinator's
// supported-extension allowlist is exactly the registered handler set.
package format

import (
	"path/filepath"
	"sort"
	"strings"
)

// Handler extracts translatable segments from content and reassembles the
// content with their translations.
type Handler interface {
	// Extract returns an opaque document plus its translatable segments,
	// in document order. The document is handed back to Apply unchanged.
	Extract(content string) (doc any, segments []string, err error)

	// Apply reassembles the content with translated segments, which must be
	// positional with the segments returned by Extract.
	Apply(doc any, translated []string) (string, error)
}

var handlers = map[string]Handler{
	".txt":  PlainText{},
	".md":   PlainText{},
	".srt":  PlainText{},
	".html": NewHTMLHandler(),
	".htm":  NewHTMLHandler(),
}

// ForPath returns the handler for a file path's extension.
func ForPath(path string) (Handler, bool) {
	h, ok := handlers[strings.ToLower(filepath.Ext(path))]
	return h, ok
}

// Supported reports whether a file path has a registered handler.
func Supported(path string) bool {
	_, ok := ForPath(path)
	return ok
}

// SupportedExtensions lists registered extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(handlers))
	for ext := range handlers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// PlainText treats the whole file as one translatable segment.
type PlainText struct{}

// Extract returns the content as a single segment.
func (PlainText) Extract(content string) (any, []string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, nil
	}
	return nil, []string{content}, nil
}

// Apply returns the single translated segment.
func (PlainText) Apply(_ any, translated []string) (string, error) {
	if len(translated) == 0 {
		return "", nil
	}
	return translated[0], nil
}
