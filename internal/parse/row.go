// Package parse reads region hierarchies and flat name -> value tables out
// of normalized document lines.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sells-group/sitedata-cli/internal/model"
)

// RowPattern recognises one kind of data row. Convert receives the regex
// submatches (index 0 is the whole match) and returns the row's name and
// value, or ok=false to reject the row.
type RowPattern[T any] struct {
	Name    string
	Pattern *regexp.Regexp
	Convert func(groups []string) (name string, value T, ok bool)
}

// Match applies the pattern to line. The leftmost match in the line is used.
func (p RowPattern[T]) Match(line string) (string, T, bool) {
	var zero T
	groups := p.Pattern.FindStringSubmatch(line)
	if groups == nil {
		return "", zero, false
	}
	return p.Convert(groups)
}

// Temperatures is a max/min shade temperature pair in degrees Celsius.
type Temperatures struct {
	Max float64
	Min float64
}

// Plausible bounds for a maximum shade temperature. Rows outside are page
// furniture that happened to match the numeric pattern.
const (
	minPlausibleMax = -10.0
	maxPlausibleMax = 60.0
)

// Accepted range for a basic wind speed in m/s.
const (
	minWindSpeed = 30.0
	maxWindSpeed = 60.0
)

var (
	temperatureRowRe = regexp.MustCompile(`([A-Za-z\s&().\-]+)\s+(-?\d{1,2}\.?\d*)\s+(-?\d{1,2}\.?\d*)`)
	// The speed must not run into another digit, but a unit may follow
	// directly ("44.5m/s").
	windRowRe = regexp.MustCompile(`([A-Za-z\s.()]+)\s+(\d{2}(?:\.\d+)?)(?:\D|$)`)
	// III precedes II so "III" is not read as "II" followed by noise.
	seismicRowRe = regexp.MustCompile(`(?i)([A-Za-z\s.()]+)\s+(III|II|IV|V)\b`)

	leadingIndexRe = regexp.MustCompile(`^\d+\W+`)
)

// TemperatureRow matches "<name> <max> <min>".
func TemperatureRow() RowPattern[Temperatures] {
	return RowPattern[Temperatures]{
		Name:    "temperature",
		Pattern: temperatureRowRe,
		Convert: func(g []string) (string, Temperatures, bool) {
			name := cleanName(g[1])
			maxT, err := strconv.ParseFloat(g[2], 64)
			if err != nil {
				return "", Temperatures{}, false
			}
			minT, err := strconv.ParseFloat(g[3], 64)
			if err != nil {
				return "", Temperatures{}, false
			}
			if maxT < minPlausibleMax || maxT > maxPlausibleMax {
				zap.L().Debug("parse: temperature out of range",
					zap.String("name", name),
					zap.Float64("max", maxT),
				)
				return "", Temperatures{}, false
			}
			if utf8.RuneCountInString(name) <= 2 {
				return "", Temperatures{}, false
			}
			return name, Temperatures{Max: maxT, Min: minT}, true
		},
	}
}

// WindRow matches "<name> <speed>" with a two digit speed in [30, 60].
func WindRow() RowPattern[float64] {
	return RowPattern[float64]{
		Name:    "wind",
		Pattern: windRowRe,
		Convert: func(g []string) (string, float64, bool) {
			name := strings.TrimSpace(g[1])
			speed, err := strconv.ParseFloat(g[2], 64)
			if err != nil || speed < minWindSpeed || speed > maxWindSpeed {
				return "", 0, false
			}
			if utf8.RuneCountInString(name) <= 2 {
				return "", 0, false
			}
			return name, speed, true
		},
	}
}

// SeismicRow matches "<name> <zone>" for zones II through V.
func SeismicRow() RowPattern[model.Zone] {
	return RowPattern[model.Zone]{
		Name:    "seismic",
		Pattern: seismicRowRe,
		Convert: func(g []string) (string, model.Zone, bool) {
			name := strings.TrimSpace(g[1])
			zone, ok := model.ParseZone(g[2])
			if !ok || utf8.RuneCountInString(name) <= 2 {
				return "", "", false
			}
			return name, zone, true
		},
	}
}

// cleanName strips list numbering ("12. ", "3) ") and leftover bullet
// punctuation from the front of a captured name.
func cleanName(raw string) string {
	name := strings.TrimSpace(raw)
	name = leadingIndexRe.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".-&) ")
	return strings.TrimSpace(name)
}
