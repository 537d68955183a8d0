package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/lane-analytics/backend/internal/models"
	"github.com/lane-analytics/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stationFields = testutil.StationFields

func runReport(t *testing.T, table *models.Table, opts Options) *models.Report {
	t.Helper()
	if opts.Fields == (models.FieldConfig{}) {
		opts.Fields = stationFields
	}
	report, err := New(nil, nil, nil).Run(context.Background(), table, opts)
	require.NoError(t, err)
	return report
}

func TestRunDropsRowsWithoutDeliveryTime(t *testing.T) {
	table := testutil.ShipmentTable(stationFields,
		testutil.Shipment{Origin: "A", Destination: "X", DeliveryTime: "t1"},
		testutil.Shipment{Origin: "A", Destination: "Y"},
		testutil.Shipment{Origin: "B", Destination: "X", DeliveryTime: "t2"},
	)

	report := runReport(t, table, Options{})
	agg := report.Aggregation

	assert.Equal(t, models.Summary{TotalRows: 2, DistinctOrigins: 2, DistinctDestinations: 1}, report.Summary)
	assert.Equal(t, 1, agg.Origins.Count("A"))
	assert.Equal(t, 1, agg.Origins.Count("B"))
	assert.Equal(t, 2, agg.Destinations.Count("X"))
	assert.Equal(t, 0, agg.Destinations.Count("Y"))
	assert.Equal(t, 1, agg.Lanes.Count(models.LaneKey{Origin: "A", Destination: "X"}))
	assert.Equal(t, 1, agg.Lanes.Count(models.LaneKey{Origin: "B", Destination: "X"}))
	assert.Equal(t, 2, agg.Lanes.Len())
	assert.Equal(t, "A → X", report.Lanes[0].Label)
}

func TestRunEmptyTable(t *testing.T) {
	table := testutil.ShipmentTable(stationFields)

	report := runReport(t, table, Options{IncludeMatrix: true})

	assert.Equal(t, models.Summary{}, report.Summary)
	assert.Empty(t, report.Origins)
	assert.Empty(t, report.Destinations)
	assert.Empty(t, report.Lanes)
	assert.Empty(t, report.TopLanes)
	require.NotNil(t, report.Matrix)
	assert.Equal(t, 0, report.Matrix.Total())
}

func TestRunAllRowsFiltered(t *testing.T) {
	table := testutil.ShipmentTable(stationFields,
		testutil.Shipment{Origin: "A", Destination: "X"},
		testutil.Shipment{Origin: "B", Destination: "Y"},
	)

	report := runReport(t, table, Options{})
	assert.Equal(t, 0, report.Summary.TotalRows)
	assert.Empty(t, report.Origins)
}

func TestRunMergesWhitespaceVariants(t *testing.T) {
	table := testutil.ShipmentTable(stationFields,
		testutil.Shipment{Origin: " A ", Destination: "X", DeliveryTime: "t1"},
		testutil.Shipment{Origin: "A", Destination: " X", DeliveryTime: "t2"},
	)

	report := runReport(t, table, Options{})

	assert.Equal(t, []models.CountEntry{{Key: "A", Count: 2}}, report.Origins)
	assert.Equal(t, []models.CountEntry{{Key: "X", Count: 2}}, report.Destinations)
	assert.Equal(t, 1, report.Summary.DistinctOrigins)
	assert.Equal(t, []models.LaneEntry{{Origin: "A", Destination: "X", Label: "A → X", Count: 2}}, report.Lanes)
}

func TestRunMissingInput(t *testing.T) {
	_, err := New(nil, nil, nil).Run(context.Background(), nil, Options{Fields: stationFields})
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestRunSchemaError(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		missing []string
	}{
		{name: "no delivery time", fields: []string{"ORIG", "DEST"}, missing: []string{"DEL TIME"}},
		{name: "wrong convention", fields: []string{"Origin Airport", "Destination Airport", "DEL TIME"}, missing: []string{"ORIG", "DEST"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := models.NewTable(tt.fields)
			table.AddRow("A", "X", "t1")

			_, err := New(nil, nil, nil).Run(context.Background(), table, Options{Fields: stationFields})
			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.missing, se.Missing)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	table := testutil.ShipmentTable(stationFields, testutil.Shipment{Origin: "A", Destination: "X", DeliveryTime: "t"})

	_, err := New(nil, nil, nil).Run(ctx, table, Options{Fields: stationFields})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunTopNDefaultsAndTieBreak(t *testing.T) {
	var shipments []testutil.Shipment
	for i := 0; i < 25; i++ {
		shipments = append(shipments, testutil.Shipment{
			Origin: fmt.Sprintf("O%02d", i), Destination: "X", DeliveryTime: "t",
		})
	}
	// O24 becomes the most frequent origin; O00..O23 tie at one.
	shipments = append(shipments, testutil.Shipment{Origin: "O24", Destination: "Y", DeliveryTime: "t"})

	report := runReport(t, testutil.ShipmentTable(stationFields, shipments...), Options{})

	require.Len(t, report.TopOrigins, DefaultTopN)
	assert.Equal(t, DefaultTopN, report.TopN)
	assert.Equal(t, models.CountEntry{Key: "O24", Count: 2}, report.TopOrigins[0])
	for i := 1; i < DefaultTopN; i++ {
		assert.Equal(t, fmt.Sprintf("O%02d", i-1), report.TopOrigins[i].Key, "ties keep first-seen order")
	}
	assert.Len(t, report.TopDestinations, 2)
	assert.Equal(t, "X", report.TopDestinations[0].Key)
}

func TestRunMatrix(t *testing.T) {
	table := testutil.ShipmentTable(stationFields,
		testutil.Shipment{Origin: "A", Destination: "X", DeliveryTime: "t"},
		testutil.Shipment{Origin: "A", Destination: "X", DeliveryTime: "t"},
		testutil.Shipment{Origin: "B", Destination: "Y", DeliveryTime: "t"},
		testutil.Shipment{Origin: "C", Destination: "Z"},
	)

	report := runReport(t, table, Options{IncludeMatrix: true})
	m := report.Matrix
	require.NotNil(t, m)

	assert.Equal(t, []string{"A", "B"}, m.Origins)
	assert.Equal(t, []string{"X", "Y"}, m.Destinations)
	assert.Equal(t, [][]int{{2, 0}, {0, 1}}, m.Counts)
	assert.Equal(t, 0, m.At("A", "Y"))
	assert.Equal(t, 0, m.At("C", "Z"), "filtered rows are not on the axes")

	noMatrix := runReport(t, table, Options{})
	assert.Nil(t, noMatrix.Matrix)
}

// randomTable builds a table with noisy whitespace, blanks and repeated codes.
func randomTable(r *rand.Rand, n int) *models.Table {
	codes := []string{"FRA", "MUC", "HAM", "CGN", "LEJ", "STR", "BER"}
	pad := []string{"", " ", "  ", "\t"}
	table := models.NewTable([]string{"AWB", "ORIG", "DEST", "DEL TIME"})
	for i := 0; i < n; i++ {
		var del models.Cell
		switch r.Intn(4) {
		case 0:
			del = nil
		case 1:
			del = " "
		default:
			del = fmt.Sprintf("t%d", i)
		}
		o := pad[r.Intn(len(pad))] + codes[r.Intn(len(codes))] + pad[r.Intn(len(pad))]
		d := pad[r.Intn(len(pad))] + codes[r.Intn(len(codes))]
		table.AddRow(i, o, d, del)
	}
	return table
}

func TestRunProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for iter := 0; iter < 50; iter++ {
		table := randomTable(r, r.Intn(200))
		filtered, err := FilterPresent(table, "DEL TIME")
		require.NoError(t, err)

		topN := r.Intn(10)
		report := runReport(t, table, Options{TopN: topN, IncludeMatrix: true})
		agg := report.Aggregation

		assert.Equal(t, filtered.Len(), agg.Origins.Total())
		assert.Equal(t, filtered.Len(), agg.Destinations.Total())
		assert.Equal(t, filtered.Len(), agg.Lanes.Total())
		assert.Equal(t, filtered.Len(), report.Summary.TotalRows)
		assert.Equal(t, agg.Origins.Len(), report.Summary.DistinctOrigins)
		assert.Equal(t, agg.Destinations.Len(), report.Summary.DistinctDestinations)

		m := report.Matrix
		assert.Equal(t, agg.Origins.Keys(), m.Origins)
		assert.Equal(t, agg.Destinations.Keys(), m.Destinations)
		assert.Equal(t, agg.Lanes.Total(), m.Total())
		for _, o := range m.Origins {
			for _, d := range m.Destinations {
				assert.Equal(t, agg.Lanes.Count(models.LaneKey{Origin: o, Destination: d}), m.At(o, d))
			}
		}

		wantN := report.TopN
		if agg.Origins.Len() < wantN {
			wantN = agg.Origins.Len()
		}
		assert.Len(t, report.TopOrigins, wantN)
		assert.True(t, sort.SliceIsSorted(report.TopOrigins, func(i, j int) bool {
			return report.TopOrigins[i].Count > report.TopOrigins[j].Count
		}))
	}
}
