package extract

import (
	"context"
	"iter"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Document is the extracted text of one source. Lines are normalized lazily
// on every call to Lines.
type Document struct {
	Path string
	text string
}

// NewDocument wraps already extracted text.
func NewDocument(path, text string) *Document {
	return &Document{Path: path, text: text}
}

// FromLines builds a Document whose raw text is lines joined by newlines.
func FromLines(path string, lines ...string) *Document {
	return NewDocument(path, strings.Join(lines, "\n"))
}

// Load extracts the document at path with the extractor registered for its
// extension. When the file is absent or cannot be extracted, Load returns an
// empty Document together with a *MissingSourceError so the caller can log
// it and continue.
func Load(ctx context.Context, reg *Registry, path string) (*Document, error) {
	empty := NewDocument(path, "")

	if _, err := os.Stat(path); err != nil {
		return empty, &MissingSourceError{Path: path, Err: err}
	}

	ext, err := reg.For(path)
	if err != nil {
		return empty, &MissingSourceError{Path: path, Err: err}
	}

	text, err := ext.ExtractText(ctx, path)
	if err != nil {
		return empty, &MissingSourceError{Path: path, Err: err}
	}

	doc := NewDocument(path, text)
	zap.L().Debug("extract: document loaded",
		zap.String("path", path),
		zap.Int("lines", doc.Count()),
	)
	return doc, nil
}

// Lines yields the normalized, non-empty lines of the document in reading
// order. Each call starts again from the first line.
func (d *Document) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := d.text
		for rest != "" {
			var raw string
			if i := strings.IndexAny(rest, "\n\f"); i >= 0 {
				raw, rest = rest[:i], rest[i+1:]
			} else {
				raw, rest = rest, ""
			}
			line := Normalize(raw)
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// Count returns the number of normalized lines.
func (d *Document) Count() int {
	n := 0
	for range d.Lines() {
		n++
	}
	return n
}

// punctuation maps non-breaking spaces and unicode dashes to ASCII.
var punctuation = strings.NewReplacer(
	"\u00a0", " ", // no-break space
	"\u2007", " ", // figure space
	"\u202f", " ", // narrow no-break space
	"\u2010", "-", // hyphen
	"\u2011", "-", // non-breaking hyphen
	"\u2012", "-", // figure dash
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2015", "-", // horizontal bar
	"\u2212", "-", // minus sign
)

// Normalize applies NFKC, maps non-breaking spaces and dashes to ASCII,
// trims the line and collapses runs of whitespace to a single space.
func Normalize(raw string) string {
	s := norm.NFKC.String(raw)
	s = punctuation.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
