// workbook.go - Spreadsheet fixtures for tests
package testutil

import (
	"testing"

	"github.com/lane-analytics/backend/internal/models"
	"github.com/xuri/excelize/v2"
)

// AirportFields is the column convention of the "airport" profile.
var AirportFields = models.FieldConfig{
	Origin:       "Origin Airport",
	Destination:  "Destination Airport",
	DeliveryTime: "DEL TIME",
}

// StationFields is the column convention of the "station" profile.
var StationFields = models.FieldConfig{
	Origin:       "ORIG",
	Destination:  "DEST",
	DeliveryTime: "DEL TIME",
}

// Shipment is a compact row description used to build fixtures.
// An empty DeliveryTime leaves the cell blank.
type Shipment struct {
	Origin       string
	Destination  string
	DeliveryTime string
}

// ShipmentTable builds an in-memory table with the given field names plus an
// unused "AWB" column, one row per shipment.
func ShipmentTable(fields models.FieldConfig, shipments ...Shipment) *models.Table {
	t := models.NewTable([]string{"AWB", fields.Origin, fields.Destination, fields.DeliveryTime})
	for i, s := range shipments {
		var del models.Cell
		if s.DeliveryTime != "" {
			del = s.DeliveryTime
		}
		t.AddRow(awb(i), s.Origin, s.Destination, del)
	}
	return t
}

// WorkbookBytes writes header and rows into the first sheet of a new workbook
// and returns the encoded .xlsx file.
func WorkbookBytes(t testing.TB, header []string, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("invalid cell coordinates: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("failed to write row %d: %v", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to encode workbook: %v", err)
	}
	return buf.Bytes()
}

// ShipmentWorkbook encodes shipments as an .xlsx file using the field names.
func ShipmentWorkbook(t testing.TB, fields models.FieldConfig, shipments ...Shipment) []byte {
	t.Helper()
	rows := make([][]interface{}, len(shipments))
	for i, s := range shipments {
		var del interface{}
		if s.DeliveryTime != "" {
			del = s.DeliveryTime
		}
		rows[i] = []interface{}{awb(i), s.Origin, s.Destination, del}
	}
	return WorkbookBytes(t, []string{"AWB", fields.Origin, fields.Destination, fields.DeliveryTime}, rows...)
}

func awb(i int) string {
	return "AWB-" + string(rune('A'+i%26)) + string(rune('0'+i%10))
}
