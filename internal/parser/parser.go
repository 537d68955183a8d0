package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lane-analytics/backend/internal/models"
)

// HeadSize is how many leading bytes of a file are handed to CanLoad.
const HeadSize = 512

var (
	// ErrUnsupportedFormat is returned when no loader accepts a file.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoHeader is returned when a file has no non-empty header row.
	ErrNoHeader = errors.New("no header row found")
)

// LoadError wraps a failure to read an uploaded file.
type LoadError struct {
	Loader string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s loader: %v", e.Loader, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader turns an uploaded tabular file into a Table.
type Loader interface {
	// Name returns the unique name of the loader.
	Name() string
	// CanLoad returns true if this loader can handle a file with the given
	// name and leading bytes.
	CanLoad(fileName string, head []byte) bool
	// Load reads the whole file into memory.
	Load(r io.Reader) (*models.Table, error)
}

// buildTable turns raw string records into a table. The first record with a
// non-blank cell is the header; blank strings become nil cells.
func buildTable(records [][]string, intern *StringIntern) (*models.Table, error) {
	headerIdx := -1
	for i, rec := range records {
		if !isBlankRecord(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrNoHeader
	}

	header := records[headerIdx]
	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = strings.TrimSpace(h)
	}

	table := models.NewTable(fields)
	for _, rec := range records[headerIdx+1:] {
		if isBlankRecord(rec) {
			continue
		}
		cells := make([]models.Cell, len(fields))
		for i := 0; i < len(fields) && i < len(rec); i++ {
			if rec[i] == "" {
				continue
			}
			cells[i] = intern.Intern(rec[i])
		}
		table.AddRow(cells...)
	}
	return table, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func extension(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}
