package model

import (
	"maps"
	"slices"
)

// Hierarchy maps region -> sub-region -> record. Region and sub-region keys
// keep the display case found in the source document.
type Hierarchy map[string]map[string]*Record

// EnsureRegion returns the sub-region map for region, creating it if needed.
func (h Hierarchy) EnsureRegion(region string) map[string]*Record {
	subs, ok := h[region]
	if !ok {
		subs = make(map[string]*Record)
		h[region] = subs
	}
	return subs
}

// Put stores r under region/sub, replacing any earlier record for that key.
func (h Hierarchy) Put(region, sub string, r *Record) {
	h.EnsureRegion(region)[sub] = r
}

// Lookup returns the record at region/sub.
func (h Hierarchy) Lookup(region, sub string) (*Record, bool) {
	subs, ok := h[region]
	if !ok {
		return nil, false
	}
	r, ok := subs[sub]
	return r, ok
}

// Regions returns the region names in sorted order.
func (h Hierarchy) Regions() []string {
	return slices.Sorted(maps.Keys(h))
}

// Subregions returns the sub-region names of region in sorted order.
func (h Hierarchy) Subregions(region string) []string {
	return slices.Sorted(maps.Keys(h[region]))
}

// SubregionCount returns the number of leaves across all regions.
func (h Hierarchy) SubregionCount() int {
	n := 0
	for _, subs := range h {
		n += len(subs)
	}
	return n
}

// Each calls fn for every leaf in sorted region, sub-region order.
func (h Hierarchy) Each(fn func(region, sub string, r *Record)) {
	for _, region := range h.Regions() {
		for _, sub := range h.Subregions(region) {
			fn(region, sub, h[region][sub])
		}
	}
}

// FlatIndex is a one-level lookup keyed by upper-cased sub-region name.
type FlatIndex[T any] map[string]T

// Keys returns the index keys in sorted order.
func (f FlatIndex[T]) Keys() []string {
	return slices.Sorted(maps.Keys(f))
}
