package models

import "sort"

// FrequencyEntry is one key of a FrequencyView with its count.
type FrequencyEntry[K comparable] struct {
	Key   K
	Count int
}

// FrequencyView counts occurrences per key and remembers the order in which
// keys were first seen. Counts always sum to the number of Add calls.
type FrequencyView[K comparable] struct {
	keys   []K
	counts map[K]int
}

// NewFrequencyView creates an empty view.
func NewFrequencyView[K comparable]() *FrequencyView[K] {
	return &FrequencyView[K]{
		keys:   make([]K, 0),
		counts: make(map[K]int),
	}
}

// Add increments the count for key by one.
func (v *FrequencyView[K]) Add(key K) {
	v.AddN(key, 1)
}

// AddN increments the count for key by n. Keys added with n <= 0 are ignored.
func (v *FrequencyView[K]) AddN(key K, n int) {
	if n <= 0 {
		return
	}
	if _, ok := v.counts[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.counts[key] += n
}

// Count returns the count for key, 0 if unseen.
func (v *FrequencyView[K]) Count(key K) int {
	return v.counts[key]
}

// Len returns the number of distinct keys.
func (v *FrequencyView[K]) Len() int {
	return len(v.keys)
}

// Keys returns the keys in first-seen order.
func (v *FrequencyView[K]) Keys() []K {
	out := make([]K, len(v.keys))
	copy(out, v.keys)
	return out
}

// Total returns the sum of all counts.
func (v *FrequencyView[K]) Total() int {
	total := 0
	for _, c := range v.counts {
		total += c
	}
	return total
}

// Entries returns all keys with counts in first-seen order.
func (v *FrequencyView[K]) Entries() []FrequencyEntry[K] {
	out := make([]FrequencyEntry[K], len(v.keys))
	for i, k := range v.keys {
		out[i] = FrequencyEntry[K]{Key: k, Count: v.counts[k]}
	}
	return out
}

// TopN returns the n most frequent entries sorted by descending count.
// Ties keep first-seen order. n <= 0 yields an empty slice.
func (v *FrequencyView[K]) TopN(n int) []FrequencyEntry[K] {
	if n <= 0 {
		return []FrequencyEntry[K]{}
	}
	entries := v.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Equal reports whether both views hold the same keys, counts and order.
func (v *FrequencyView[K]) Equal(other *FrequencyView[K]) bool {
	if v.Len() != other.Len() {
		return false
	}
	for i, k := range v.keys {
		if other.keys[i] != k || other.counts[k] != v.counts[k] {
			return false
		}
	}
	return true
}

// CountEntry is the wire form of a single-key frequency entry.
type CountEntry struct {
	Key   string `json:"key" msgpack:"key"`
	Count int    `json:"count" msgpack:"count"`
}

// CountEntries converts text-keyed entries to their wire form.
func CountEntries(entries []FrequencyEntry[string]) []CountEntry {
	out := make([]CountEntry, len(entries))
	for i, e := range entries {
		out[i] = CountEntry{Key: e.Key, Count: e.Count}
	}
	return out
}
