package parse

import (
	"iter"
	"strings"

	"github.com/sells-group/sitedata-cli/internal/model"
)

// ParseFlat builds a FlatIndex from every line that p accepts. Keys are the
// upper-cased row names; a later row replaces an earlier one with the same key.
func ParseFlat[T any](lines iter.Seq[string], p RowPattern[T]) model.FlatIndex[T] {
	idx := model.FlatIndex[T]{}
	for line := range lines {
		name, value, ok := p.Match(line)
		if !ok {
			continue
		}
		idx[strings.ToUpper(name)] = value
	}
	return idx
}

// ParseWind builds the wind speed index.
func ParseWind(lines iter.Seq[string]) model.FlatIndex[float64] {
	return ParseFlat(lines, WindRow())
}

// ParseSeismic builds the seismic zone index.
func ParseSeismic(lines iter.Seq[string]) model.FlatIndex[model.Zone] {
	return ParseFlat(lines, SeismicRow())
}
