// duckstore.go - DuckDB-backed aggregation engine
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/lane-analytics/backend/internal/models"
	"github.com/lane-analytics/backend/internal/pipeline"
	"github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

const defaultBatchSize = 50000

var pragmas = []string{
	"PRAGMA memory_limit='512MB'",
	"PRAGMA threads=2",
	"PRAGMA enable_progress_bar=false",
}

// DuckStore holds one cleaned table's origin and destination columns in an
// in-memory DuckDB database. A store lives for a single aggregation.
type DuckStore struct {
	db        *sql.DB
	rows      int
	batchSize int
	batch     [][2]string
	logger    *zap.Logger
}

// OpenDuckStore creates an empty in-memory database with the shipments table.
func OpenDuckStore(ctx context.Context, logger *zap.Logger) (*DuckStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	connector, err := duckdb.NewConnector("", func(execer driver.ExecerContext) error {
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(ctx, pragma, nil); err != nil {
				return fmt.Errorf("%s: %w", pragma, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	_, err = db.ExecContext(ctx, `
		CREATE TABLE shipments (
			seq         INTEGER NOT NULL,
			origin      VARCHAR NOT NULL,
			destination VARCHAR NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &DuckStore{
		db:        db,
		batchSize: defaultBatchSize,
		batch:     make([][2]string, 0, defaultBatchSize),
		logger:    logger,
	}, nil
}

// Add queues one shipment. Rows are written in batches through the Appender API.
func (ds *DuckStore) Add(ctx context.Context, origin, destination string) error {
	ds.batch = append(ds.batch, [2]string{origin, destination})
	ds.rows++
	if len(ds.batch) >= ds.batchSize {
		return ds.flush(ctx)
	}
	return nil
}

// Len returns the number of rows added so far.
func (ds *DuckStore) Len() int {
	return ds.rows
}

func (ds *DuckStore) flush(ctx context.Context) error {
	if len(ds.batch) == 0 {
		return nil
	}
	start := time.Now()

	conn, err := ds.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("failed to cast to duckdb.Conn")
		}

		appender, err := duckdb.NewAppenderFromConn(dConn, "", "shipments")
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer appender.Close()

		base := ds.rows - len(ds.batch)
		for i, rec := range ds.batch {
			if err := appender.AppendRow(int32(base+i), rec[0], rec[1]); err != nil {
				return fmt.Errorf("failed to append row %d: %w", base+i, err)
			}
		}
		return appender.Flush()
	})
	if err != nil {
		return fmt.Errorf("appender error: %w", err)
	}

	ds.logger.Debug("batch flushed", zap.Int("rows", len(ds.batch)), zap.Duration("elapsed", time.Since(start)))
	ds.batch = ds.batch[:0]
	return nil
}

// Frequencies flushes pending rows and reads the three frequency views back.
// Groups are ordered by their lowest sequence number, which is the order in
// which each key was first seen.
func (ds *DuckStore) Frequencies(ctx context.Context) (*models.Aggregation, error) {
	if err := ds.flush(ctx); err != nil {
		return nil, err
	}

	agg := models.NewAggregation()
	if err := ds.countColumn(ctx, "origin", agg.Origins); err != nil {
		return nil, err
	}
	if err := ds.countColumn(ctx, "destination", agg.Destinations); err != nil {
		return nil, err
	}

	rows, err := ds.db.QueryContext(ctx, `
		SELECT origin, destination, COUNT(*) AS n
		FROM shipments
		GROUP BY origin, destination
		ORDER BY MIN(seq)
	`)
	if err != nil {
		return nil, fmt.Errorf("lane query failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key models.LaneKey
		var n int64
		if err := rows.Scan(&key.Origin, &key.Destination, &n); err != nil {
			return nil, fmt.Errorf("lane scan failed: %w", err)
		}
		agg.Lanes.AddN(key, int(n))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var total int64
	if err := ds.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shipments").Scan(&total); err != nil {
		return nil, fmt.Errorf("count query failed: %w", err)
	}
	agg.Summary = pipeline.Summarize(int(total), agg)
	return agg, nil
}

// column is one of the fixed names "origin" or "destination".
func (ds *DuckStore) countColumn(ctx context.Context, column string, view *models.FrequencyView[string]) error {
	query := fmt.Sprintf(
		"SELECT %s, COUNT(*) AS n FROM shipments GROUP BY %s ORDER BY MIN(seq)",
		column, column,
	)
	rows, err := ds.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s query failed: %w", column, err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("%s scan failed: %w", column, err)
		}
		view.AddN(key, int(n))
	}
	return rows.Err()
}

// Close releases the database.
func (ds *DuckStore) Close() error {
	if ds.db == nil {
		return nil
	}
	err := ds.db.Close()
	ds.db = nil
	return err
}
