// Package reconcile fills wind and zone fields of a region hierarchy from
// flat lookup tables whose names are spelled differently.
package reconcile

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sells-group/sitedata-cli/internal/model"
)

// Policy defaults.
const (
	DefaultThreshold   = 90
	DefaultMinFuzzyLen = 3
)

// Method records how a field value was resolved.
type Method string

const (
	MethodExact   Method = "exact"
	MethodFuzzy   Method = "fuzzy"
	MethodUnknown Method = "unknown"
)

// Reconciler owns the match policy: a fuzzy match is trusted only when the
// score reaches Threshold and the name is longer than MinFuzzyLen.
type Reconciler struct {
	Matcher     Matcher
	Threshold   int
	MinFuzzyLen int
}

// New returns a Reconciler with the default policy. A nil matcher means
// LevenshteinMatcher.
func New(m Matcher) *Reconciler {
	if m == nil {
		m = LevenshteinMatcher{}
	}
	return &Reconciler{Matcher: m, Threshold: DefaultThreshold, MinFuzzyLen: DefaultMinFuzzyLen}
}

// Outcome counts how each leaf was resolved in one pass.
type Outcome struct {
	Exact   int `json:"exact"`
	Fuzzy   int `json:"fuzzy"`
	Unknown int `json:"unknown"`
}

// Total returns the number of leaves visited.
func (o Outcome) Total() int {
	return o.Exact + o.Fuzzy + o.Unknown
}

func (o *Outcome) add(m Method) {
	switch m {
	case MethodExact:
		o.Exact++
	case MethodFuzzy:
		o.Fuzzy++
	default:
		o.Unknown++
	}
}

// Resolve looks name up in idx. keys must be the sorted keys of idx.
func Resolve[T any](r *Reconciler, name string, idx model.FlatIndex[T], keys []string) (T, Method) {
	var zero T
	query := strings.ToUpper(name)

	if v, ok := idx[query]; ok {
		return v, MethodExact
	}

	if utf8.RuneCountInString(query) <= r.MinFuzzyLen || len(keys) == 0 {
		return zero, MethodUnknown
	}

	match, score, ok := r.Matcher.BestMatch(query, keys)
	if !ok || score < r.Threshold {
		zap.L().Debug("reconcile: no confident match",
			zap.String("name", name),
			zap.String("best", match),
			zap.Int("score", score),
		)
		return zero, MethodUnknown
	}

	zap.L().Debug("reconcile: fuzzy match",
		zap.String("name", name),
		zap.String("match", match),
		zap.Int("score", score),
	)
	return idx[match], MethodFuzzy
}

// Apply resolves every leaf of h against idx and hands the result to set,
// with ok=false when the value is unknown. set must only write its own field.
func Apply[T any](r *Reconciler, h model.Hierarchy, idx model.FlatIndex[T], set func(rec *model.Record, v T, ok bool)) Outcome {
	keys := idx.Keys()
	var out Outcome
	h.Each(func(_, sub string, rec *model.Record) {
		v, m := Resolve(r, sub, idx, keys)
		set(rec, v, m != MethodUnknown)
		out.add(m)
	})
	return out
}

// ApplyWind fills the Wind field of every leaf.
func (r *Reconciler) ApplyWind(h model.Hierarchy, idx model.FlatIndex[float64]) Outcome {
	return Apply(r, h, idx, func(rec *model.Record, speed float64, ok bool) {
		w := model.UnknownWind
		if ok {
			w = model.KnownWind(speed)
		}
		rec.Wind = &w
	})
}

// ApplyZone fills the Zone field of every leaf.
func (r *Reconciler) ApplyZone(h model.Hierarchy, idx model.FlatIndex[model.Zone]) Outcome {
	return Apply(r, h, idx, func(rec *model.Record, zone model.Zone, ok bool) {
		z := model.ZoneUnknown
		if ok {
			z = zone
		}
		rec.Zone = &z
	})
}
