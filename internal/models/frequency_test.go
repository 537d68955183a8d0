package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequencyViewOrderAndTotals(t *testing.T) {
	v := NewFrequencyView[string]()
	for _, k := range []string{"JFK", "LAX", "JFK", "ORD", "LAX", "JFK"} {
		v.Add(k)
	}
	v.AddN("SFO", 0)

	assert.Equal(t, []string{"JFK", "LAX", "ORD"}, v.Keys())
	assert.Equal(t, 3, v.Count("JFK"))
	assert.Equal(t, 0, v.Count("SFO"))
	assert.Equal(t, 6, v.Total())
	assert.Equal(t, 3, v.Len())
}

func TestFrequencyViewTopN(t *testing.T) {
	v := NewFrequencyView[string]()
	v.AddN("A", 1)
	v.AddN("B", 3)
	v.AddN("C", 1)
	v.AddN("D", 3)

	tests := []struct {
		n    int
		want []FrequencyEntry[string]
	}{
		{n: 0, want: []FrequencyEntry[string]{}},
		{n: -1, want: []FrequencyEntry[string]{}},
		{n: 2, want: []FrequencyEntry[string]{{"B", 3}, {"D", 3}}},
		{n: 10, want: []FrequencyEntry[string]{{"B", 3}, {"D", 3}, {"A", 1}, {"C", 1}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.TopN(tt.n), "n=%d", tt.n)
	}
}

func TestFrequencyViewEqual(t *testing.T) {
	a := NewFrequencyView[string]()
	b := NewFrequencyView[string]()
	a.Add("X")
	a.Add("Y")
	b.Add("Y")
	b.Add("X")

	assert.False(t, a.Equal(b), "order matters")
	c := NewFrequencyView[string]()
	c.Add("X")
	c.Add("Y")
	assert.True(t, a.Equal(c))
}

func TestLaneKeyLabel(t *testing.T) {
	assert.Equal(t, "FRA → MUC", LaneKey{Origin: "FRA", Destination: "MUC"}.Label())
}

func TestLaneMatrixAt(t *testing.T) {
	m := &LaneMatrix{
		Origins:      []string{"FRA", "HAM"},
		Destinations: []string{"MUC", "CGN"},
		Counts:       [][]int{{2, 0}, {1, 4}},
	}
	assert.Equal(t, 2, m.At("FRA", "MUC"))
	assert.Equal(t, 4, m.At("HAM", "CGN"))
	assert.Equal(t, 0, m.At("FRA", "CGN"))
	assert.Equal(t, 0, m.At("LEJ", "MUC"))
	assert.Equal(t, 7, m.Total())
}
