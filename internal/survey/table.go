package survey

import (
	"os"
	"time"

	"github.com/google/uuid"
)

// Rows is read access to an ordered set of respondent records. Both the
// canonical Table and filtered views implement it.
type Rows interface {
	Len() int
	Record(i int) Record
	Columns() []string
}

// Source identifies the input a table was built from.
type Source struct {
	Path    string
	Size    int64
	ModTime time.Time
}

func sourceOf(path string, info os.FileInfo) Source {
	return Source{Path: path, Size: info.Size(), ModTime: info.ModTime()}
}

// Same reports whether two sources describe the same file contents.
func (s Source) Same(o Source) bool {
	return s.Path == o.Path && s.Size == o.Size && s.ModTime.Equal(o.ModTime)
}

// columns is the shared, read-only column index of a table.
type columns struct {
	names []string
	index map[string]int
}

// Record is one cleaned respondent. The typed fields mirror the columns the
// dashboard filters and groups on; Value reaches every column.
type Record struct {
	Timestamp     time.Time
	Age           int
	Gender        string
	AgeGroup      string
	Country       string
	State         string
	SelfEmployed  string
	FamilyHistory string
	Treatment     string
	WorkInterfere string

	cols   *columns
	values []Value
}

// Value returns the cleaned field for a column. ok is false for unknown columns.
func (r Record) Value(col string) (v Value, ok bool) {
	if r.cols == nil {
		return Value{}, false
	}
	i, ok := r.cols.index[col]
	if !ok || i >= len(r.values) {
		return Value{}, false
	}
	return r.values[i], true
}

// Values returns a copy of all fields in column order.
func (r Record) Values() []Value {
	return append([]Value(nil), r.values...)
}

// Table is the canonical, immutable survey table.
type Table struct {
	id      string
	source  Source
	cols    *columns
	records []Record
	built   time.Time
}

// ID is a random identifier assigned when the table was built. A new ID means
// the source was re-read.
func (t *Table) ID() string { return t.id }

// Source returns the identity of the input file.
func (t *Table) Source() Source { return t.source }

// BuiltAt is the time the table was built.
func (t *Table) BuiltAt() time.Time { return t.built }

func (t *Table) Len() int { return len(t.records) }

func (t *Table) Record(i int) Record { return t.records[i] }

// Columns returns the column names: the source header followed by Age_Group.
func (t *Table) Columns() []string { return append([]string(nil), t.cols.names...) }

// Records copies all records out in table order.
func (t *Table) Records() []Record {
	return append([]Record(nil), t.records...)
}

// Ages returns the age of every record in table order.
func (t *Table) Ages() []int {
	out := make([]int, len(t.records))
	for i, r := range t.records {
		out[i] = r.Age
	}
	return out
}

func newTable(f *frame, src Source) *Table {
	cols := &columns{names: append([]string(nil), f.header...), index: make(map[string]int, len(f.header))}
	for k, v := range f.index {
		cols.index[k] = v
	}
	text := func(row []Value, col string) string {
		if i, ok := cols.index[col]; ok && i < len(row) {
			return row[i].Text
		}
		return ""
	}
	t := &Table{
		id:      uuid.NewString(),
		source:  src,
		cols:    cols,
		records: make([]Record, len(f.rows)),
		built:   time.Now(),
	}
	for i, row := range f.rows {
		r := Record{
			Age:           f.ages[i],
			Gender:        text(row, ColGender),
			AgeGroup:      text(row, ColAgeGroup),
			Country:       text(row, ColCountry),
			State:         text(row, ColState),
			SelfEmployed:  text(row, ColSelfEmployed),
			FamilyHistory: text(row, ColFamilyHistory),
			Treatment:     text(row, ColTreatment),
			WorkInterfere: text(row, ColWorkInterfere),
			cols:          cols,
			values:        row,
		}
		if f.timesSet {
			r.Timestamp = f.times[i]
		}
		t.records[i] = r
	}
	return t
}
