package analysis

import (
	"sort"

	"github.com/KaramelBytes/techpulse/internal/survey"
)

// CrossTab is a contingency table of two categorical columns. Values holds
// counts, or row percentages after Percent.
type CrossTab struct {
	Index      []string    `json:"index" yaml:"index"`
	Columns    []string    `json:"columns" yaml:"columns"`
	Values     [][]float64 `json:"values" yaml:"values"` // row-major, Values[i][j]
	Normalized bool        `json:"normalized" yaml:"normalized"`
}

// CrossTabulate counts co-occurrences of rowCol and colCol. Rows where either
// value is missing are skipped. Index and columns are sorted ascending.
func CrossTabulate(rows survey.Rows, rowCol, colCol string) *CrossTab {
	counts := map[string]map[string]int{}
	colSet := map[string]struct{}{}
	for i := 0; i < rows.Len(); i++ {
		r := rows.Record(i)
		a, ok := r.Value(rowCol)
		if !ok || a.Missing {
			continue
		}
		b, ok := r.Value(colCol)
		if !ok || b.Missing {
			continue
		}
		m := counts[a.Text]
		if m == nil {
			m = map[string]int{}
			counts[a.Text] = m
		}
		m[b.Text]++
		colSet[b.Text] = struct{}{}
	}
	ct := &CrossTab{}
	for k := range counts {
		ct.Index = append(ct.Index, k)
	}
	sort.Strings(ct.Index)
	for k := range colSet {
		ct.Columns = append(ct.Columns, k)
	}
	sort.Strings(ct.Columns)
	ct.Values = make([][]float64, len(ct.Index))
	for i, k := range ct.Index {
		ct.Values[i] = make([]float64, len(ct.Columns))
		for j, c := range ct.Columns {
			ct.Values[i][j] = float64(counts[k][c])
		}
	}
	return ct
}

// Percent returns a copy with each row scaled to sum to 100.
func (ct *CrossTab) Percent() *CrossTab {
	out := ct.clone()
	for _, row := range out.Values {
		var sum float64
		for _, v := range row {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for j := range row {
			row[j] = row[j] / sum * 100
		}
	}
	out.Normalized = true
	return out
}

// WithColumns returns a copy whose columns are exactly cols, in that order.
// Columns not observed are filled with zero.
func (ct *CrossTab) WithColumns(cols ...string) *CrossTab {
	out := &CrossTab{Index: append([]string(nil), ct.Index...), Columns: append([]string(nil), cols...), Normalized: ct.Normalized}
	out.Values = make([][]float64, len(ct.Index))
	for i := range ct.Index {
		out.Values[i] = make([]float64, len(cols))
		for j, c := range cols {
			if k := indexOf(ct.Columns, c); k >= 0 {
				out.Values[i][j] = ct.Values[i][k]
			}
		}
	}
	return out
}

// OrderIndex returns a copy whose rows follow order; rows not named in order
// keep their relative position after the ordered ones.
func (ct *CrossTab) OrderIndex(order []string) *CrossTab {
	rank := make(map[string]int, len(order))
	for i, o := range order {
		rank[o] = i
	}
	perm := make([]int, len(ct.Index))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ra, oka := rank[ct.Index[perm[a]]]
		rb, okb := rank[ct.Index[perm[b]]]
		switch {
		case oka && okb:
			return ra < rb
		case oka != okb:
			return oka
		default:
			return false
		}
	})
	return ct.permute(perm)
}

// Restrict returns a copy holding only the index rows in keep.
func (ct *CrossTab) Restrict(keep []string) *CrossTab {
	var perm []int
	for i, k := range ct.Index {
		if indexOf(keep, k) >= 0 {
			perm = append(perm, i)
		}
	}
	return ct.permute(perm)
}

// SortBy returns a copy with rows ordered by the value in column col.
// Ties keep index order.
func (ct *CrossTab) SortBy(col string, ascending bool) *CrossTab {
	j := indexOf(ct.Columns, col)
	perm := make([]int, len(ct.Index))
	for i := range perm {
		perm[i] = i
	}
	if j < 0 {
		return ct.permute(perm)
	}
	sort.SliceStable(perm, func(a, b int) bool {
		va, vb := ct.Values[perm[a]][j], ct.Values[perm[b]][j]
		if ascending {
			return va < vb
		}
		return va > vb
	})
	return ct.permute(perm)
}

// Column returns the values of one column in index order, or nil.
func (ct *CrossTab) Column(col string) []float64 {
	j := indexOf(ct.Columns, col)
	if j < 0 {
		return nil
	}
	out := make([]float64, len(ct.Index))
	for i := range ct.Index {
		out[i] = ct.Values[i][j]
	}
	return out
}

func (ct *CrossTab) permute(perm []int) *CrossTab {
	out := &CrossTab{Columns: append([]string(nil), ct.Columns...), Normalized: ct.Normalized}
	out.Index = make([]string, len(perm))
	out.Values = make([][]float64, len(perm))
	for i, p := range perm {
		out.Index[i] = ct.Index[p]
		out.Values[i] = append([]float64(nil), ct.Values[p]...)
	}
	return out
}

func (ct *CrossTab) clone() *CrossTab {
	perm := make([]int, len(ct.Index))
	for i := range perm {
		perm[i] = i
	}
	return ct.permute(perm)
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
