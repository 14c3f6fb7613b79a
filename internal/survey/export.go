package survey

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// DefaultExportName is the file name offered for filtered downloads.
const DefaultExportName = "filtered_mental_health_data.csv"

// WriteCSV serializes rows with standard CSV quoting. The header is the
// table's column list; missing values are written as empty fields.
func WriteCSV(w io.Writer, rows Rows) error {
	cw := csv.NewWriter(w)
	cols := rows.Columns()
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(cols))
	for i := 0; i < rows.Len(); i++ {
		r := rows.Record(i)
		for j, c := range cols {
			v, _ := r.Value(c)
			rec[j] = v.Text
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// MarshalCSV returns the CSV encoding of rows.
func MarshalCSV(rows Rows) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
