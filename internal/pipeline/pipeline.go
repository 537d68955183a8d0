// Package pipeline turns an uploaded shipment table into the dashboard report:
// filter rows without a delivery time, trim origin and destination, count
// origins, destinations and lanes, rank them and optionally build the lane matrix.
package pipeline

import (
	"context"
	"time"

	"github.com/lane-analytics/backend/internal/metrics"
	"github.com/lane-analytics/backend/internal/models"
	"go.uber.org/zap"
)

// DefaultTopN is the number of bars shown per chart.
const DefaultTopN = 20

// Options configures one pipeline run.
type Options struct {
	Fields models.FieldConfig
	// TopN <= 0 selects DefaultTopN.
	TopN          int
	IncludeMatrix bool
}

// Pipeline runs uploads through the cleaning and aggregation stages.
// It holds no per-run state and may be shared between goroutines.
type Pipeline struct {
	agg     Aggregator
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a pipeline. A nil aggregator selects the in-memory engine.
func New(agg Aggregator, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	if agg == nil {
		agg = NewMemoryAggregator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		agg:     agg,
		logger:  logger.Named("pipeline"),
		metrics: m,
	}
}

// Engine returns the name of the aggregation engine.
func (p *Pipeline) Engine() string {
	return p.agg.Name()
}

// Run computes the report for t. A nil table is ErrMissingInput; a table
// lacking any configured field is a *SchemaError. A table whose rows are all
// filtered out yields an empty report, not an error.
func (p *Pipeline) Run(ctx context.Context, t *models.Table, opts Options) (*models.Report, error) {
	if t == nil {
		return nil, ErrMissingInput
	}
	start := time.Now()
	fields := opts.Fields
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	if err := CheckSchema(t, fields.Required()...); err != nil {
		p.logger.Warn("schema check failed", zap.Error(err), zap.Strings("fields", t.Fields))
		return nil, err
	}

	filtered, err := FilterPresent(t, fields.DeliveryTime)
	if err != nil {
		return nil, err
	}
	cleaned, err := Normalize(filtered, fields.Origin, fields.Destination)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agg, err := p.agg.Aggregate(ctx, cleaned, fields.Origin, fields.Destination)
	if err != nil {
		return nil, err
	}

	report := NewReport(agg, fields, topN)
	report.Engine = p.agg.Name()
	if opts.IncludeMatrix {
		report.Matrix = MatrixFor(agg)
	}

	elapsed := time.Since(start)
	report.ProcessingTimeMs = elapsed.Milliseconds()
	p.metrics.ObserveRun(p.agg.Name(), elapsed, t.Len(), cleaned.Len())
	p.logger.Info("report computed",
		zap.String("engine", p.agg.Name()),
		zap.Int("rows_loaded", t.Len()),
		zap.Int("rows_kept", cleaned.Len()),
		zap.Int("origins", agg.Summary.DistinctOrigins),
		zap.Int("destinations", agg.Summary.DistinctDestinations),
		zap.Int("lanes", agg.Lanes.Len()),
		zap.Duration("elapsed", elapsed),
	)
	return report, nil
}

// NewReport shapes an aggregation into the wire report with top-N selections.
func NewReport(agg *models.Aggregation, fields models.FieldConfig, topN int) *models.Report {
	return &models.Report{
		Summary:         agg.Summary,
		Fields:          fields,
		TopN:            topN,
		Origins:         models.CountEntries(agg.Origins.Entries()),
		Destinations:    models.CountEntries(agg.Destinations.Entries()),
		Lanes:           models.LaneEntries(agg.Lanes.Entries()),
		TopOrigins:      models.CountEntries(agg.Origins.TopN(topN)),
		TopDestinations: models.CountEntries(agg.Destinations.TopN(topN)),
		TopLanes:        models.LaneEntries(agg.Lanes.TopN(topN)),
		Aggregation:     agg,
	}
}
