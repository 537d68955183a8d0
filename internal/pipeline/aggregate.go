package pipeline

import (
	"context"

	"github.com/lane-analytics/backend/internal/models"
)

// Aggregator computes the origin, destination and lane frequency views of a
// cleaned table. Views list keys in first-seen row order so that ranking ties
// resolve the same way whatever engine produced them.
type Aggregator interface {
	Name() string
	Aggregate(ctx context.Context, t *models.Table, originField, destinationField string) (*models.Aggregation, error)
}

// MemoryAggregator counts in a single pass over the rows.
type MemoryAggregator struct{}

func NewMemoryAggregator() *MemoryAggregator {
	return &MemoryAggregator{}
}

func (a *MemoryAggregator) Name() string {
	return "memory"
}

func (a *MemoryAggregator) Aggregate(ctx context.Context, t *models.Table, originField, destinationField string) (*models.Aggregation, error) {
	if err := CheckSchema(t, originField, destinationField); err != nil {
		return nil, err
	}
	oi, _ := t.Index(originField)
	di, _ := t.Index(destinationField)

	agg := models.NewAggregation()
	for i, row := range t.Rows {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		origin := CellText(row[oi])
		destination := CellText(row[di])
		agg.Origins.Add(origin)
		agg.Destinations.Add(destination)
		agg.Lanes.Add(models.LaneKey{Origin: origin, Destination: destination})
	}
	agg.Summary = Summarize(t.Len(), agg)
	return agg, nil
}

// Summarize derives the scalar metrics from a row count and the views.
func Summarize(totalRows int, agg *models.Aggregation) models.Summary {
	return models.Summary{
		TotalRows:            totalRows,
		DistinctOrigins:      agg.Origins.Len(),
		DistinctDestinations: agg.Destinations.Len(),
	}
}

// BuildMatrix spreads lane counts over the full origins × destinations cross
// product. Pairs never observed together are zero.
func BuildMatrix(lanes *models.FrequencyView[models.LaneKey], origins, destinations []string) *models.LaneMatrix {
	m := &models.LaneMatrix{
		Origins:      append([]string{}, origins...),
		Destinations: append([]string{}, destinations...),
		Counts:       make([][]int, len(origins)),
	}
	for i, o := range origins {
		row := make([]int, len(destinations))
		for j, d := range destinations {
			row[j] = lanes.Count(models.LaneKey{Origin: o, Destination: d})
		}
		m.Counts[i] = row
	}
	return m
}

// MatrixFor builds the lane matrix over every origin and destination of agg.
func MatrixFor(agg *models.Aggregation) *models.LaneMatrix {
	return BuildMatrix(agg.Lanes, agg.Origins.Keys(), agg.Destinations.Keys())
}
