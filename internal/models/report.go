package models

// LaneSeparator joins origin and destination in lane display labels.
const LaneSeparator = " → "

// LaneKey is an ordered origin→destination pair.
type LaneKey struct {
	Origin      string `json:"origin" msgpack:"origin"`
	Destination string `json:"destination" msgpack:"destination"`
}

// Label returns the display form of the lane. It is not part of the key.
func (k LaneKey) Label() string {
	return k.Origin + LaneSeparator + k.Destination
}

// LaneEntry is the wire form of a lane frequency entry.
type LaneEntry struct {
	Origin      string `json:"origin" msgpack:"origin"`
	Destination string `json:"destination" msgpack:"destination"`
	Label       string `json:"label" msgpack:"label"`
	Count       int    `json:"count" msgpack:"count"`
}

// LaneEntries converts lane entries to their wire form.
func LaneEntries(entries []FrequencyEntry[LaneKey]) []LaneEntry {
	out := make([]LaneEntry, len(entries))
	for i, e := range entries {
		out[i] = LaneEntry{
			Origin:      e.Key.Origin,
			Destination: e.Key.Destination,
			Label:       e.Key.Label(),
			Count:       e.Count,
		}
	}
	return out
}

// Summary holds the scalar metrics shown above the charts.
type Summary struct {
	TotalRows            int `json:"totalRows" msgpack:"totalRows"`
	DistinctOrigins      int `json:"distinctOrigins" msgpack:"distinctOrigins"`
	DistinctDestinations int `json:"distinctDestinations" msgpack:"distinctDestinations"`
}

// Aggregation is the output of an aggregation engine over a cleaned table.
type Aggregation struct {
	Origins      *FrequencyView[string]
	Destinations *FrequencyView[string]
	Lanes        *FrequencyView[LaneKey]
	Summary      Summary
}

// NewAggregation creates an empty aggregation.
func NewAggregation() *Aggregation {
	return &Aggregation{
		Origins:      NewFrequencyView[string](),
		Destinations: NewFrequencyView[string](),
		Lanes:        NewFrequencyView[LaneKey](),
	}
}

// Equal reports whether two aggregations hold identical views and summaries.
func (a *Aggregation) Equal(b *Aggregation) bool {
	return a.Summary == b.Summary &&
		a.Origins.Equal(b.Origins) &&
		a.Destinations.Equal(b.Destinations) &&
		a.Lanes.Equal(b.Lanes)
}

// LaneMatrix is a dense origin×destination table of lane counts.
// Counts[i][j] is the count for Origins[i] → Destinations[j].
type LaneMatrix struct {
	Origins      []string `json:"origins" msgpack:"origins"`
	Destinations []string `json:"destinations" msgpack:"destinations"`
	Counts       [][]int  `json:"counts" msgpack:"counts"`
}

// At returns the count for a lane, 0 if the pair is unseen or off-axis.
func (m *LaneMatrix) At(origin, destination string) int {
	oi := indexOf(m.Origins, origin)
	di := indexOf(m.Destinations, destination)
	if oi < 0 || di < 0 {
		return 0
	}
	return m.Counts[oi][di]
}

// Total returns the sum of all cells.
func (m *LaneMatrix) Total() int {
	total := 0
	for _, row := range m.Counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}

// Report is everything the presentation layer needs for one upload.
type Report struct {
	Summary          Summary      `json:"summary" msgpack:"summary"`
	Fields           FieldConfig  `json:"fields" msgpack:"fields"`
	TopN             int          `json:"topN" msgpack:"topN"`
	Engine           string       `json:"engine" msgpack:"engine"`
	ProcessingTimeMs int64        `json:"processingTimeMs" msgpack:"processingTimeMs"`
	Origins          []CountEntry `json:"origins" msgpack:"origins"`
	Destinations     []CountEntry `json:"destinations" msgpack:"destinations"`
	Lanes            []LaneEntry  `json:"lanes" msgpack:"lanes"`
	TopOrigins       []CountEntry `json:"topOrigins" msgpack:"topOrigins"`
	TopDestinations  []CountEntry `json:"topDestinations" msgpack:"topDestinations"`
	TopLanes         []LaneEntry  `json:"topLanes" msgpack:"topLanes"`
	Matrix           *LaneMatrix  `json:"matrix,omitempty" msgpack:"matrix,omitempty"`

	// Aggregation keeps the typed views for top-N queries with other N.
	Aggregation *Aggregation `json:"-" msgpack:"-"`
}
