package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/techpulse/internal/survey"
)

// NumSummary captures descriptive statistics of a numeric column.
type NumSummary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Std    float64 `json:"std" yaml:"std"` // sample standard deviation; 0 below two values
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// Describe summarizes vals. It returns nil for an empty input.
func Describe(vals []float64) *NumSummary {
	if len(vals) == 0 {
		return nil
	}
	s := &NumSummary{Min: math.Inf(1), Max: math.Inf(-1)}
	// Welford update
	var m2 float64
	for _, x := range vals {
		s.Count++
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
		delta := x - s.Mean
		s.Mean += delta / float64(s.Count)
		m2 += delta * (x - s.Mean)
	}
	if s.Count > 1 {
		s.Std = math.Sqrt(m2 / float64(s.Count-1))
	}
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	s.Median = quantile(cp, 0.5)
	return s
}

// Ages returns the age of every row as float64 for numeric summaries.
func Ages(rows survey.Rows) []float64 {
	out := make([]float64, rows.Len())
	for i := range out {
		out[i] = float64(rows.Record(i).Age)
	}
	return out
}

// Bin is one histogram bucket. Every bin is [Lower, Upper) except the last,
// which also includes Upper.
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// Histogram splits the range of vals into n equal-width bins. A constant
// input yields a single unit-wide bin centred on the value.
func Histogram(vals []float64, n int) []Bin {
	if len(vals) == 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Lower: lo - 0.5, Upper: hi + 0.5, Count: len(vals)}}
	}
	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		bins[i].Upper = lo + float64(i+1)*width
	}
	bins[n-1].Upper = hi
	for _, v := range vals {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
