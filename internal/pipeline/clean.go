package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lane-analytics/backend/internal/models"
)

// CheckSchema verifies that every named field exists in t. All missing fields
// are reported in a single SchemaError.
func CheckSchema(t *models.Table, fields ...string) error {
	var missing []string
	for _, f := range fields {
		if !t.HasField(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	available := make([]string, len(t.Fields))
	copy(available, t.Fields)
	return &SchemaError{Missing: missing, Available: available}
}

// IsPresent reports whether a cell holds a value. Nil cells and blank strings
// are absent.
func IsPresent(v models.Cell) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case time.Time:
		return !x.IsZero()
	default:
		return true
	}
}

// FilterPresent returns a new table holding only rows whose field is present.
// Row order is preserved and dropped rows are not reported.
func FilterPresent(t *models.Table, field string) (*models.Table, error) {
	idx, ok := t.Index(field)
	if !ok {
		return nil, &SchemaError{Missing: []string{field}, Available: t.Fields}
	}

	out := models.NewTable(t.Fields)
	for _, row := range t.Rows {
		if IsPresent(row[idx]) {
			nr := make(models.Row, len(row))
			copy(nr, row)
			out.Rows = append(out.Rows, nr)
		}
	}
	return out, nil
}

// CellText is the canonical text form of a cell.
func CellText(v models.Cell) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Normalize returns a new table where each named field holds trimmed text.
// Normalizing an already normalized table yields an equal table.
func Normalize(t *models.Table, fields ...string) (*models.Table, error) {
	if err := CheckSchema(t, fields...); err != nil {
		return nil, err
	}
	idxs := make([]int, len(fields))
	for i, f := range fields {
		idxs[i], _ = t.Index(f)
	}

	out := t.Clone()
	for _, row := range out.Rows {
		for _, idx := range idxs {
			row[idx] = strings.TrimSpace(CellText(row[idx]))
		}
	}
	return out, nil
}
