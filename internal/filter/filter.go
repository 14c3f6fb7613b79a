package filter

import "github.com/KaramelBytes/techpulse/internal/survey"

// View is a read-only subset of a canonical table, in table order.
// Views hold indices only; records are read from the table.
type View struct {
	table    *survey.Table
	indices  []int
	criteria Criteria
}

func (v *View) Len() int { return len(v.indices) }

func (v *View) Record(i int) survey.Record { return v.table.Record(v.indices[i]) }

func (v *View) Columns() []string { return v.table.Columns() }

// Table returns the canonical table the view was derived from.
func (v *View) Table() *survey.Table { return v.table }

// Criteria returns the filters that produced the view.
func (v *View) Criteria() Criteria { return v.criteria }

// Indices returns the table positions of the view's rows.
func (v *View) Indices() []int { return append([]int(nil), v.indices...) }

// Records copies the view's records out.
func (v *View) Records() []survey.Record {
	out := make([]survey.Record, len(v.indices))
	for i, idx := range v.indices {
		out[i] = v.table.Record(idx)
	}
	return out
}

type predicate func(survey.Record) bool

// predicates returns one predicate per active criterion.
func (c Criteria) predicates() []predicate {
	var ps []predicate
	if !c.Genders.IsAll() {
		g := c.Genders
		ps = append(ps, func(r survey.Record) bool { return g.Contains(r.Gender) })
	}
	if !c.Ages.IsAny() {
		a := c.Ages
		ps = append(ps, func(r survey.Record) bool { return a.Contains(r.Age) })
	}
	if !c.Countries.IsAll() {
		cs := c.Countries
		ps = append(ps, func(r survey.Record) bool { return cs.Contains(r.Country) })
	}
	if !c.Treatment.IsAll() {
		want := string(c.Treatment)
		ps = append(ps, func(r survey.Record) bool { return r.Treatment == want })
	}
	return ps
}

// Apply returns the rows of t matching every active criterion. Criteria
// combine with AND; values within a selection combine with OR. The table is
// never modified.
func Apply(t *survey.Table, c Criteria) *View {
	ps := c.predicates()
	n := t.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		r := t.Record(i)
		pass := true
		for _, p := range ps {
			if !p(r) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}
	return &View{table: t, indices: indices, criteria: c}
}
