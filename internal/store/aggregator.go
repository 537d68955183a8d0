// aggregator.go - Engine selection and the DuckDB aggregator
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/lane-analytics/backend/internal/models"
	"github.com/lane-analytics/backend/internal/pipeline"
	"go.uber.org/zap"
)

// Engine names accepted by NewAggregator.
const (
	EngineMemory = "memory"
	EngineDuckDB = "duckdb"
)

// NewAggregator returns the aggregation engine with the given name.
// An empty name selects the memory engine.
func NewAggregator(engine string, logger *zap.Logger) (pipeline.Aggregator, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineMemory:
		return pipeline.NewMemoryAggregator(), nil
	case EngineDuckDB:
		return NewDuckAggregator(logger), nil
	default:
		return nil, fmt.Errorf("unknown aggregation engine %q (want %s or %s)", engine, EngineMemory, EngineDuckDB)
	}
}

// DuckAggregator counts lanes with SQL GROUP BY over a per-run DuckStore.
// Its views are identical to the memory engine's, including key order.
type DuckAggregator struct {
	logger *zap.Logger
}

func NewDuckAggregator(logger *zap.Logger) *DuckAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DuckAggregator{logger: logger.Named("duckdb")}
}

func (a *DuckAggregator) Name() string {
	return EngineDuckDB
}

func (a *DuckAggregator) Aggregate(ctx context.Context, t *models.Table, originField, destinationField string) (*models.Aggregation, error) {
	if err := pipeline.CheckSchema(t, originField, destinationField); err != nil {
		return nil, err
	}
	oi, _ := t.Index(originField)
	di, _ := t.Index(destinationField)

	ds, err := OpenDuckStore(ctx, a.logger)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	for i, row := range t.Rows {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := ds.Add(ctx, pipeline.CellText(row[oi]), pipeline.CellText(row[di])); err != nil {
			return nil, err
		}
	}
	return ds.Frequencies(ctx)
}
