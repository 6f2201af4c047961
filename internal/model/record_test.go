package model

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{34, "34.0"},
		{44.5, "44.5"},
		{-2.5, "-2.5"},
		{0, "0.0"},
		{8.25, "8.25"},
	}
	for _, tt := range tests {
		got, err := json.Marshal(Number(tt.in))
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got))
	}
}

func TestNumber_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "34.0", Number(34).String())
	assert.Equal(t, "-2.5", Number(-2.5).String())
	assert.Equal(t, "31.2", fmt.Sprint(*NumberPtr(31.2)))
}

func TestWind_MarshalJSON(t *testing.T) {
	t.Parallel()

	got, err := json.Marshal(KnownWind(44))
	require.NoError(t, err)
	assert.Equal(t, "44.0", string(got))

	got, err = json.Marshal(UnknownWind)
	require.NoError(t, err)
	assert.Equal(t, `"unknown"`, string(got))
}

func TestWind_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var w Wind
	require.NoError(t, json.Unmarshal([]byte("47.0"), &w))
	assert.Equal(t, KnownWind(47), w)

	require.NoError(t, json.Unmarshal([]byte(`"unknown"`), &w))
	assert.False(t, w.Known)

	err := json.Unmarshal([]byte(`"fast"`), &w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid wind value")
}

func TestWind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "39.0", KnownWind(39).String())
	assert.Equal(t, "unknown", UnknownWind.String())
}

func TestRecord_MarshalFull(t *testing.T) {
	t.Parallel()

	w := KnownWind(44.5)
	z := ZoneIII
	r := Record{Max: NumberPtr(34), Min: NumberPtr(22), Wind: &w, Zone: &z}
	assert.True(t, r.Complete())

	got, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"max":34.0,"min":22.0,"wind":44.5,"zone":"III"}`, string(got))
	assert.Contains(t, string(got), `"max":34.0`)
}

func TestRecord_MarshalUnreconciled(t *testing.T) {
	t.Parallel()

	r := Record{Max: NumberPtr(40), Min: NumberPtr(10)}
	assert.False(t, r.Complete())

	got, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"max":40.0,"min":10.0}`, string(got))
}

func TestRecord_UnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"max":34.0,"min":22.0,"wind":"unknown","zone":"iv"}`), &r))
	require.True(t, r.Complete())
	assert.InDelta(t, 34.0, float64(*r.Max), 0.0001)
	assert.False(t, r.Wind.Known)
	assert.Equal(t, ZoneIV, *r.Zone)
}
