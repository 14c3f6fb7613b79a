package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Value is one field of a record. Missing marks an NA field; Text is then "".
type Value struct {
	Text    string
	Missing bool
}

func newValue(raw string) Value {
	if IsMissing(raw) {
		return Value{Missing: true}
	}
	return Value{Text: raw}
}

// frame is the whole-table working set the cleaning steps operate on.
// Steps never modify a frame in place; they return a new one.
type frame struct {
	header []string
	index  map[string]int
	rows   [][]Value
	line   []int // 1-based source data row

	ages     []int
	agesSet  bool
	times    []time.Time
	timesSet bool
}

func newFrame(header []string) *frame {
	f := &frame{header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		if _, dup := f.index[h]; !dup {
			f.index[h] = i
		}
	}
	return f
}

// col returns the index of a column; callers validate the schema first.
func (f *frame) col(name string) int {
	i, ok := f.index[name]
	if !ok {
		return -1
	}
	return i
}

// clone copies the frame so a step can rewrite rows without touching its input.
func (f *frame) clone() *frame {
	out := &frame{
		header: append([]string(nil), f.header...),
		index:  make(map[string]int, len(f.index)),
		rows:   make([][]Value, len(f.rows)),
		line:   append([]int(nil), f.line...),

		ages:     make([]int, len(f.ages)),
		agesSet:  f.agesSet,
		times:    make([]time.Time, len(f.times)),
		timesSet: f.timesSet,
	}
	copy(out.ages, f.ages)
	copy(out.times, f.times)
	for k, v := range f.index {
		out.index[k] = v
	}
	for i, r := range f.rows {
		out.rows[i] = append([]Value(nil), r...)
	}
	return out
}

// keep returns a copy of the frame holding only rows where keepRow is true.
func (f *frame) keep(keepRow []bool) *frame {
	out := &frame{
		header:   append([]string(nil), f.header...),
		index:    f.index,
		agesSet:  f.agesSet,
		timesSet: f.timesSet,
	}
	for i, ok := range keepRow {
		if !ok {
			continue
		}
		out.rows = append(out.rows, append([]Value(nil), f.rows[i]...))
		out.line = append(out.line, f.line[i])
		if f.agesSet {
			out.ages = append(out.ages, f.ages[i])
		}
		if f.timesSet {
			out.times = append(out.times, f.times[i])
		}
	}
	return out
}

func (f *frame) checkSchema(required []string) error {
	var missing []string
	for _, c := range required {
		if _, ok := f.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// readFrame reads delimited text with a header row into a frame.
func readFrame(r io.Reader) (*frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Missing: append([]string(nil), RequiredColumns...)}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	names := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		names[i] = strings.TrimSpace(h)
	}
	f := newFrame(names)
	ncol := len(names)

	for n := 1; ; n++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", n, err)
		}
		if len(rec) > ncol {
			return nil, fmt.Errorf("read row %d: expected %d fields, saw %d", n, ncol, len(rec))
		}
		row := make([]Value, ncol)
		for j := 0; j < ncol; j++ {
			if j < len(rec) {
				row[j] = newValue(rec[j])
			} else {
				row[j] = Value{Missing: true}
			}
		}
		f.rows = append(f.rows, row)
		f.line = append(f.line, n)
	}
	return f, nil
}
