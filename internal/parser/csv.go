package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/lane-analytics/backend/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVLoader handles comma-separated exports of the shipment sheet.
// Format: header row followed by one record per shipment.
type CSVLoader struct {
	Comma rune
}

func NewCSVLoader() *CSVLoader {
	return &CSVLoader{Comma: ','}
}

func (l *CSVLoader) Name() string {
	return "csv"
}

func (l *CSVLoader) CanLoad(fileName string, head []byte) bool {
	switch extension(fileName) {
	case ".csv":
		return true
	case ".xlsx", ".xlsm":
		return false
	}
	if len(head) == 0 || bytes.HasPrefix(head, zipMagic) || bytes.IndexByte(head, 0) >= 0 {
		return false
	}
	// Ignore a rune cut in half at the end of the sniffed prefix.
	trimmed := head
	for len(trimmed) > 0 && !utf8.Valid(trimmed) {
		trimmed = trimmed[:len(trimmed)-1]
	}
	firstLine := trimmed
	if i := bytes.IndexByte(trimmed, '\n'); i >= 0 {
		firstLine = trimmed[:i]
	}
	return len(trimmed) > 0 && bytes.ContainsRune(firstLine, l.Comma)
}

func (l *CSVLoader) Load(r io.Reader) (*models.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Loader: l.Name(), Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = l.Comma
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Loader: l.Name(), Err: fmt.Errorf("malformed csv: %w", err)}
	}

	table, err := buildTable(records, NewStringIntern())
	if err != nil {
		return nil, &LoadError{Loader: l.Name(), Err: err}
	}
	return table, nil
}
