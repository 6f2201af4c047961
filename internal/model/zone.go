package model

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Zone is a seismic zone designation.
type Zone string

const (
	ZoneII      Zone = "II"
	ZoneIII     Zone = "III"
	ZoneIV      Zone = "IV"
	ZoneV       Zone = "V"
	ZoneUnknown Zone = Unknown
)

// zoneFactors maps each zone to its seismic zone factor. Used by consumers
// of the database, not by the build itself.
var zoneFactors = map[Zone]float64{
	ZoneII:  0.10,
	ZoneIII: 0.16,
	ZoneIV:  0.24,
	ZoneV:   0.36,
}

// ParseZone parses a zone token case-insensitively. Only II, III, IV and V
// are accepted.
func ParseZone(s string) (Zone, bool) {
	z := Zone(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := zoneFactors[z]; !ok {
		return "", false
	}
	return z, true
}

// Known reports whether z is one of the four real zones.
func (z Zone) Known() bool {
	_, ok := zoneFactors[z]
	return ok
}

// Factor returns the zone factor for z.
func (z Zone) Factor() (float64, bool) {
	f, ok := zoneFactors[z]
	return f, ok
}

// UnmarshalJSON accepts a zone letter or the "unknown" sentinel.
func (z *Zone) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return eris.Wrap(err, "model: decode zone")
	}
	if s == Unknown {
		*z = ZoneUnknown
		return nil
	}
	parsed, ok := ParseZone(s)
	if !ok {
		return eris.Errorf("model: invalid zone %q", s)
	}
	*z = parsed
	return nil
}
