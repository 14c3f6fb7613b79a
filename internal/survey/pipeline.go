package survey

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Step is one cleaning transformation over the whole table. A step returns a
// new frame and leaves its input untouched.
type Step struct {
	Name string
	run  func(*frame) (*frame, error)
}

// DefaultPipeline returns the cleaning steps in the order they run on load.
// BucketAge depends on DropAgeOutliers; the other steps are column independent.
func DefaultPipeline() []Step {
	return []Step{
		DropAgeOutliers(),
		NormalizeGenders(),
		FillMissing(),
		BucketAges(),
		ParseTimestamps(),
	}
}

func runPipeline(f *frame, steps []Step) (*frame, error) {
	var err error
	for _, s := range steps {
		f, err = s.run(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	return f, nil
}

// DropAgeOutliers keeps rows with minAge < Age < maxAge. Rows without an age
// are dropped; a non-numeric age fails the load.
func DropAgeOutliers() Step {
	return Step{Name: "drop age outliers", run: func(f *frame) (*frame, error) {
		ac := f.col(ColAge)
		mask := make([]bool, len(f.rows))
		ages := make([]int, 0, len(f.rows))
		for i, row := range f.rows {
			v := row[ac]
			if v.Missing {
				continue
			}
			age, err := parseAge(v.Text)
			if err != nil {
				return nil, &ParseError{Row: f.line[i], Column: ColAge, Value: v.Text, Err: err}
			}
			if age > minAge && age < maxAge {
				mask[i] = true
				ages = append(ages, age)
			}
		}
		out := f.keep(mask)
		out.ages = ages
		out.agesSet = true
		for i := range out.rows {
			out.rows[i][ac] = Value{Text: strconv.Itoa(ages[i])}
		}
		return out, nil
	}}
}

func parseAge(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
		return 0, errors.New("not a whole number")
	}
	// Beyond int range; the age filter drops it either way.
	if x >= float64(math.MaxInt) {
		return math.MaxInt, nil
	}
	if x <= float64(math.MinInt) {
		return math.MinInt, nil
	}
	return int(x), nil
}

// NormalizeGenders rewrites Gender through the synonym table. Missing answers
// become Other.
func NormalizeGenders() Step {
	return Step{Name: "normalize gender", run: func(f *frame) (*frame, error) {
		out := f.clone()
		gc := out.col(ColGender)
		for _, row := range out.rows {
			row[gc] = Value{Text: NormalizeGender(row[gc].Text)}
		}
		return out, nil
	}}
}

// missingFills lists the only columns that receive a default value.
var missingFills = []struct {
	col, value string
}{
	{ColState, NotApplicable},
	{ColWorkInterfere, NotApplicable},
	{ColSelfEmployed, No},
}

// FillMissing substitutes defaults for missing state, work_interfere and
// self_employed. Every other column keeps its missing values.
func FillMissing() Step {
	return Step{Name: "fill missing", run: func(f *frame) (*frame, error) {
		out := f.clone()
		for _, fill := range missingFills {
			c := out.col(fill.col)
			for _, row := range out.rows {
				if row[c].Missing {
					row[c] = Value{Text: fill.value}
				}
			}
		}
		return out, nil
	}}
}

// BucketAges appends the derived Age_Group column.
func BucketAges() Step {
	return Step{Name: "bucket ages", run: func(f *frame) (*frame, error) {
		if !f.agesSet {
			return nil, errors.New("age column not finalized")
		}
		out := f.clone()
		gc, ok := out.index[ColAgeGroup]
		if !ok {
			gc = len(out.header)
			out.header = append(out.header, ColAgeGroup)
			out.index[ColAgeGroup] = gc
		}
		for i, row := range out.rows {
			v := Value{Text: BucketAge(out.ages[i])}
			if gc < len(row) {
				row[gc] = v
			} else {
				out.rows[i] = append(row, v)
			}
		}
		return out, nil
	}}
}

// ParseTimestamps parses Timestamp for every retained row and rewrites it in
// the canonical layout. One malformed value fails the whole load.
func ParseTimestamps() Step {
	return Step{Name: "parse timestamps", run: func(f *frame) (*frame, error) {
		out := f.clone()
		tc := out.col(ColTimestamp)
		out.times = make([]time.Time, len(out.rows))
		out.timesSet = true
		for i, row := range out.rows {
			v := row[tc]
			if v.Missing {
				continue
			}
			t, err := parseTimestamp(v.Text)
			if err != nil {
				return nil, &ParseError{Row: out.line[i], Column: ColTimestamp, Value: v.Text, Err: err}
			}
			out.times[i] = t
			row[tc] = Value{Text: t.Format(timestampLayout)}
		}
		return out, nil
	}}
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range timestampLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date-time layout")
}
