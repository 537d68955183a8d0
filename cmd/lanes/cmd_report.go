package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lane-analytics/backend/internal/logging"
	"github.com/lane-analytics/backend/internal/models"
	"github.com/lane-analytics/backend/internal/parser"
	"github.com/lane-analytics/backend/internal/pipeline"
	"github.com/lane-analytics/backend/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportProfile      string
	reportOrigin       string
	reportDestination  string
	reportDeliveryTime string
	reportTop          int
	reportMatrix       bool
	reportEngine       string
	reportSheet        string
	reportJSON         bool
)

// reportCmd builds a report for one spreadsheet
var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Build and print a lane frequency report",
	Long: `Build the lane frequency report for a spreadsheet.

Columns are taken from --profile, or from --origin, --destination and
--delivery-time when all three are given.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportProfile, "profile", "", "column profile (default profile if empty)")
	reportCmd.Flags().StringVar(&reportOrigin, "origin", "", "origin column name")
	reportCmd.Flags().StringVar(&reportDestination, "destination", "", "destination column name")
	reportCmd.Flags().StringVar(&reportDeliveryTime, "delivery-time", "", "delivery time column name")
	reportCmd.Flags().IntVar(&reportTop, "top", pipeline.DefaultTopN, "number of entries per ranking")
	reportCmd.Flags().BoolVar(&reportMatrix, "matrix", false, "also print the lane matrix")
	reportCmd.Flags().StringVar(&reportEngine, "engine", store.EngineMemory, "aggregation engine (memory or duckdb)")
	reportCmd.Flags().StringVar(&reportSheet, "sheet", "", "worksheet to read (first sheet if empty)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(logLevel, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	fields, err := resolveFields()
	if err != nil {
		return err
	}

	report, err := buildReport(cmd, args[0], fields, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reportJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Fprint(out, renderReport(filepath.Base(args[0]), report))
	return nil
}

// resolveFields applies explicit column flags over the selected profile.
func resolveFields() (models.FieldConfig, error) {
	custom := models.FieldConfig{
		Origin:       reportOrigin,
		Destination:  reportDestination,
		DeliveryTime: reportDeliveryTime,
	}
	if custom != (models.FieldConfig{}) {
		if custom.Origin == "" || custom.Destination == "" || custom.DeliveryTime == "" {
			return custom, fmt.Errorf("--origin, --destination and --delivery-time must be given together")
		}
		return custom, nil
	}

	profiles, err := parser.LoadProfiles(profilesFile)
	if err != nil {
		return models.FieldConfig{}, err
	}
	fields, ok := profiles.Lookup(reportProfile)
	if !ok {
		return models.FieldConfig{}, fmt.Errorf("unknown profile %q (known: %v)", reportProfile, parser.ProfileNames(profiles))
	}
	return fields, nil
}

func buildReport(cmd *cobra.Command, path string, fields models.FieldConfig, logger *zap.Logger) (*models.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, parser.HeadSize)
	n, _ := f.Read(head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	registry := parser.NewRegistry()
	if reportSheet != "" {
		registry = parser.NewRegistryWith(&parser.XLSXLoader{Sheet: reportSheet}, parser.NewCSVLoader())
	}
	loader, err := registry.FindLoader(path, head[:n])
	if err != nil {
		return nil, err
	}
	table, err := loader.Load(f)
	if err != nil {
		return nil, err
	}

	agg, err := store.NewAggregator(reportEngine, logger)
	if err != nil {
		return nil, err
	}
	return pipeline.New(agg, logger, nil).Run(cmd.Context(), table, pipeline.Options{
		Fields:        fields,
		TopN:          reportTop,
		IncludeMatrix: reportMatrix,
	})
}
