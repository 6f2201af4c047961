package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sitedata-cli/internal/model"
)

type stubMatcher struct {
	match string
	score int
	calls int
}

func (s *stubMatcher) BestMatch(_ string, candidates []string) (string, int, bool) {
	s.calls++
	if len(candidates) == 0 {
		return "", 0, false
	}
	return s.match, s.score, true
}

func leaf(maxT, minT float64) *model.Record {
	return &model.Record{Max: model.NumberPtr(maxT), Min: model.NumberPtr(minT)}
}

func TestResolve_ExactBeatsFuzzy(t *testing.T) {
	stub := &stubMatcher{match: "OTHER", score: 100}
	r := New(stub)
	idx := model.FlatIndex[float64]{"JAIPUR": 47, "OTHER": 39}

	v, m := Resolve(r, "Jaipur", idx, idx.Keys())
	assert.Equal(t, MethodExact, m)
	assert.InDelta(t, 47.0, v, 0.0001)
	assert.Zero(t, stub.calls)
}

func TestResolve_ThresholdIsInclusive(t *testing.T) {
	idx := model.FlatIndex[float64]{"KOCHIN": 44.5}

	r := New(&stubMatcher{match: "KOCHIN", score: 89})
	_, m := Resolve(r, "Kochi", idx, idx.Keys())
	assert.Equal(t, MethodUnknown, m)

	r = New(&stubMatcher{match: "KOCHIN", score: 90})
	v, m := Resolve(r, "Kochi", idx, idx.Keys())
	assert.Equal(t, MethodFuzzy, m)
	assert.InDelta(t, 44.5, v, 0.0001)
}

func TestResolve_ShortNamesSkipFuzzy(t *testing.T) {
	stub := &stubMatcher{match: "GOAS", score: 100}
	r := New(stub)
	idx := model.FlatIndex[float64]{"GOAS": 40}

	_, m := Resolve(r, "Goa", idx, idx.Keys())
	assert.Equal(t, MethodUnknown, m)
	assert.Zero(t, stub.calls)
}

func TestResolve_ShortNameExactStillMatches(t *testing.T) {
	r := New(nil)
	idx := model.FlatIndex[float64]{"GOA": 39}

	v, m := Resolve(r, "Goa", idx, idx.Keys())
	assert.Equal(t, MethodExact, m)
	assert.InDelta(t, 39.0, v, 0.0001)
}

func TestResolve_EmptyIndex(t *testing.T) {
	stub := &stubMatcher{match: "X", score: 100}
	r := New(stub)

	_, m := Resolve(r, "Kochi", model.FlatIndex[float64]{}, nil)
	assert.Equal(t, MethodUnknown, m)
	assert.Zero(t, stub.calls)
}

func TestResolve_CustomPolicy(t *testing.T) {
	r := &Reconciler{Matcher: &stubMatcher{match: "KOCHIN", score: 70}, Threshold: 70, MinFuzzyLen: 0}
	idx := model.FlatIndex[float64]{"KOCHIN": 44.5}

	_, m := Resolve(r, "Ko", idx, idx.Keys())
	assert.Equal(t, MethodFuzzy, m)
}

func TestResolve_NearMissCitiesStayUnknown(t *testing.T) {
	tests := []struct {
		name  string
		index string
	}{
		{"Jaipur", "RAIPUR"},
		{"Rohtak", "ROHTAS"},
		{"Patna", "PANNA"},
		{"Kochi", "KOCHAR"},
	}
	r := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := model.FlatIndex[float64]{tt.index: 39}
			_, m := Resolve(r, tt.name, idx, idx.Keys())
			assert.Equal(t, MethodUnknown, m)
		})
	}
}

func TestResolve_SpellingVariantMatches(t *testing.T) {
	r := New(nil)
	idx := model.FlatIndex[float64]{"TIRUVANANTHAPURAM": 39, "RAIPUR": 44}

	v, m := Resolve(r, "Thiruvananthapuram", idx, idx.Keys())
	assert.Equal(t, MethodFuzzy, m)
	assert.InDelta(t, 39.0, v, 0.0001)
}

func TestApplyWind_NeighbourCityNotCopied(t *testing.T) {
	h := model.Hierarchy{}
	h.Put("Rajasthan", "Jaipur", leaf(45, 8))

	out := New(nil).ApplyWind(h, model.FlatIndex[float64]{"RAIPUR": 39})
	assert.Equal(t, Outcome{Unknown: 1}, out)

	jaipur, _ := h.Lookup("Rajasthan", "Jaipur")
	require.NotNil(t, jaipur.Wind)
	assert.False(t, jaipur.Wind.Known)
}

func TestApplyWind(t *testing.T) {
	h := model.Hierarchy{}
	h.Put("Kerala", "Kochi", leaf(34, 22))
	h.Put("Kerala", "Thiruvananthapuram", leaf(33, 23))
	h.Put("Rajasthan", "Phalodi", leaf(49, 3))

	r := New(nil)
	out := r.ApplyWind(h, model.FlatIndex[float64]{"KOCHI": 44.5, "TIRUVANANTHAPURAM": 39})

	assert.Equal(t, Outcome{Exact: 1, Fuzzy: 1, Unknown: 1}, out)
	assert.Equal(t, 3, out.Total())

	kochi, _ := h.Lookup("Kerala", "Kochi")
	require.NotNil(t, kochi.Wind)
	assert.Equal(t, model.KnownWind(44.5), *kochi.Wind)

	tvm, _ := h.Lookup("Kerala", "Thiruvananthapuram")
	require.NotNil(t, tvm.Wind)
	assert.Equal(t, model.KnownWind(39), *tvm.Wind)

	phalodi, _ := h.Lookup("Rajasthan", "Phalodi")
	require.NotNil(t, phalodi.Wind)
	assert.False(t, phalodi.Wind.Known)
}

func TestApplyWind_OnlyTouchesWind(t *testing.T) {
	h := model.Hierarchy{}
	h.Put("Kerala", "Kochi", leaf(34, 22))

	New(nil).ApplyWind(h, model.FlatIndex[float64]{"KOCHI": 44.5})

	kochi, _ := h.Lookup("Kerala", "Kochi")
	assert.InDelta(t, 34.0, float64(*kochi.Max), 0.0001)
	assert.InDelta(t, 22.0, float64(*kochi.Min), 0.0001)
	assert.Nil(t, kochi.Zone)
}

func TestApplyZone(t *testing.T) {
	h := model.Hierarchy{}
	h.Put("Kerala", "Kochi", leaf(34, 22))
	h.Put("Delhi", "New Delhi", leaf(45, 3))
	h.Put("Goa", "Panaji", leaf(33, 20))

	out := New(nil).ApplyZone(h, model.FlatIndex[model.Zone]{"KOCHI": model.ZoneIII, "DELHI NEW": model.ZoneIV})
	assert.Equal(t, Outcome{Exact: 1, Fuzzy: 1, Unknown: 1}, out)

	kochi, _ := h.Lookup("Kerala", "Kochi")
	assert.Equal(t, model.ZoneIII, *kochi.Zone)
	assert.Nil(t, kochi.Wind)

	delhi, _ := h.Lookup("Delhi", "New Delhi")
	assert.Equal(t, model.ZoneIV, *delhi.Zone)

	panaji, _ := h.Lookup("Goa", "Panaji")
	assert.Equal(t, model.ZoneUnknown, *panaji.Zone)
}

func TestApplyZone_EmptyIndexMarksAllUnknown(t *testing.T) {
	h := model.Hierarchy{}
	h.Put("Kerala", "Kochi", leaf(34, 22))
	h.Put("Kerala", "Kollam", leaf(33, 22))

	out := New(nil).ApplyZone(h, model.FlatIndex[model.Zone]{})
	assert.Equal(t, Outcome{Unknown: 2}, out)
	h.Each(func(_, _ string, rec *model.Record) {
		assert.Equal(t, model.ZoneUnknown, *rec.Zone)
	})
}
