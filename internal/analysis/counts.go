package analysis

import (
	"sort"

	"github.com/KaramelBytes/techpulse/internal/survey"
)

// CategoryCount is one value_counts entry.
type CategoryCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// ValueCounts counts non-missing values of col, most frequent first. Ties are
// broken by value so output is stable.
func ValueCounts(rows survey.Rows, col string) []CategoryCount {
	cats := map[string]int{}
	for i := 0; i < rows.Len(); i++ {
		v, ok := rows.Record(i).Value(col)
		if !ok || v.Missing {
			continue
		}
		cats[v.Text]++
	}
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	return tops
}

// Reindex reorders counts to follow order, keeping only labels present in
// counts. Labels absent from order are dropped.
func Reindex(counts []CategoryCount, order []string) []CategoryCount {
	byVal := make(map[string]int, len(counts))
	for _, c := range counts {
		byVal[c.Value] = c.Count
	}
	out := make([]CategoryCount, 0, len(order))
	for _, o := range order {
		if n, ok := byVal[o]; ok {
			out = append(out, CategoryCount{Value: o, Count: n})
		}
	}
	return out
}

// Head returns at most n leading entries.
func Head(counts []CategoryCount, n int) []CategoryCount {
	if n >= 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

// Unique returns the sorted distinct non-missing values of col.
func Unique(rows survey.Rows, col string) []string {
	counts := ValueCounts(rows, col)
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Value
	}
	sort.Strings(out)
	return out
}
