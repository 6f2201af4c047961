// Package extract turns source documents (PDF, plain text, CSV, XLSX) into
// ordered sequences of normalized text lines.
package extract

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sitedata-cli/internal/config"
)

// Extractor extracts the text content of one document.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// ErrMissingSource marks a document that is absent or unreadable. Callers
// treat it as an empty document and continue.
var ErrMissingSource = errors.New("missing source")

// MissingSourceError reports why a document could not be read.
type MissingSourceError struct {
	Path string
	Err  error
}

func (e *MissingSourceError) Error() string {
	return "extract: missing source " + e.Path + ": " + e.Err.Error()
}

func (e *MissingSourceError) Unwrap() error {
	return e.Err
}

// Is matches ErrMissingSource.
func (e *MissingSourceError) Is(target error) bool {
	return target == ErrMissingSource
}

// IsMissingSource reports whether err (or any error in its chain) is a
// MissingSourceError.
func IsMissingSource(err error) bool {
	return errors.Is(err, ErrMissingSource)
}

// Registry selects an Extractor by file extension.
type Registry struct {
	byExt    map[string]Extractor
	fallback Extractor
}

// NewRegistry returns a Registry with no extractors. Unknown extensions use
// fallback, which may be nil.
func NewRegistry(fallback Extractor) *Registry {
	return &Registry{byExt: make(map[string]Extractor), fallback: fallback}
}

// Register binds ext (".pdf", ".csv", ...) to e.
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// For returns the extractor for path.
func (r *Registry) For(path string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if e, ok := r.byExt[ext]; ok {
		return e, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, eris.Errorf("extract: no extractor for %q", ext)
}

// NewDefaultRegistry wires every supported format from config.
func NewDefaultRegistry(cfg config.ExtractConfig) *Registry {
	plain := NewPlainText()
	r := NewRegistry(plain)
	r.Register(".pdf", NewPdfToText(cfg.PdfToTextPath, cfg.Layout))
	r.Register(".txt", plain)
	r.Register(".text", plain)
	r.Register(".csv", NewCSVText(','))
	r.Register(".tsv", NewCSVText('\t'))
	r.Register(".xlsx", NewXLSXText(cfg.XLSXSheet))
	return r
}
