package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lane-analytics/backend/internal/models"
	"github.com/xuri/excelize/v2"
)

var zipMagic = []byte("PK\x03\x04")

// XLSXLoader reads Excel workbooks. Only one sheet is read: Sheet if set,
// otherwise the first sheet in the workbook.
type XLSXLoader struct {
	Sheet string
}

func NewXLSXLoader() *XLSXLoader {
	return &XLSXLoader{}
}

func (l *XLSXLoader) Name() string {
	return "xlsx"
}

func (l *XLSXLoader) CanLoad(fileName string, head []byte) bool {
	switch extension(fileName) {
	case ".xlsx", ".xlsm":
		return true
	case ".csv", ".txt":
		return false
	}
	return bytes.HasPrefix(head, zipMagic)
}

func (l *XLSXLoader) Load(r io.Reader) (*models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Loader: l.Name(), Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer f.Close()

	sheet := l.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &LoadError{Loader: l.Name(), Err: fmt.Errorf("workbook has no sheets")}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &LoadError{Loader: l.Name(), Err: fmt.Errorf("failed to read sheet %q: %w", sheet, err)}
	}

	table, err := buildTable(rows, NewStringIntern())
	if err != nil {
		return nil, &LoadError{Loader: l.Name(), Err: err}
	}
	return table, nil
}
