package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Unknown is written into a field that could not be resolved from its source.
const Unknown = "unknown"

// Pseudo-regions used while building the hierarchy. RegionUnknown is the
// parser's starting state and never appears in the output; rows seen while
// in that state land in RegionGeneral.
const (
	RegionUnknown = "Unknown"
	RegionGeneral = "General"
)

// Number is a float that always encodes with a fractional part (34 -> 34.0).
type Number float64

// NumberPtr returns a pointer to v as a Number.
func NumberPtr(v float64) *Number {
	n := Number(v)
	return &n
}

// String formats n the way it is encoded, with at least one decimal.
func (n Number) String() string {
	return formatNumber(float64(n))
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Wind is a basic wind speed in m/s. The zero value is unknown.
type Wind struct {
	Speed float64
	Known bool
}

// KnownWind returns a resolved wind speed.
func KnownWind(speed float64) Wind {
	return Wind{Speed: speed, Known: true}
}

// UnknownWind is the unresolved wind value.
var UnknownWind = Wind{}

// String returns the speed or "unknown".
func (w Wind) String() string {
	if !w.Known {
		return Unknown
	}
	return formatNumber(w.Speed)
}

// MarshalJSON implements json.Marshaler.
func (w Wind) MarshalJSON() ([]byte, error) {
	if !w.Known {
		return json.Marshal(Unknown)
	}
	return []byte(formatNumber(w.Speed)), nil
}

// UnmarshalJSON accepts a number or the "unknown" sentinel.
func (w *Wind) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "model: decode wind")
		}
		if s != Unknown {
			return eris.Errorf("model: invalid wind value %q", s)
		}
		*w = UnknownWind
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return eris.Wrap(err, "model: decode wind")
	}
	*w = KnownWind(v)
	return nil
}

// Record holds every value known for one sub-region. Nil fields are unset:
// the hierarchy parser fills Max and Min, reconciliation fills Wind and Zone.
type Record struct {
	Max  *Number `json:"max,omitempty"`
	Min  *Number `json:"min,omitempty"`
	Wind *Wind   `json:"wind,omitempty"`
	Zone *Zone   `json:"zone,omitempty"`
}

// Complete reports whether all four fields are set.
func (r *Record) Complete() bool {
	return r.Max != nil && r.Min != nil && r.Wind != nil && r.Zone != nil
}
