package filter

import (
	"sort"

	"github.com/KaramelBytes/techpulse/internal/survey"
)

// Options lists the choices a filter widget offers for a table. Genders and
// Countries start with "All" followed by the observed values in sorted order.
type Options struct {
	Genders   []string `json:"genders" yaml:"genders"`
	Countries []string `json:"countries" yaml:"countries"`
	AgeMin    int      `json:"age_min" yaml:"age_min"`
	AgeMax    int      `json:"age_max" yaml:"age_max"`
	Treatment []string `json:"treatment" yaml:"treatment"`
}

// OptionsFor computes widget options from the canonical table.
func OptionsFor(t *survey.Table) Options {
	genders := map[string]struct{}{}
	countries := map[string]struct{}{}
	o := Options{Treatment: []string{string(TreatmentAll), string(TreatmentYes), string(TreatmentNo)}}
	for i := 0; i < t.Len(); i++ {
		r := t.Record(i)
		genders[r.Gender] = struct{}{}
		if v, ok := r.Value(survey.ColCountry); ok && !v.Missing {
			countries[v.Text] = struct{}{}
		}
		if i == 0 || r.Age < o.AgeMin {
			o.AgeMin = r.Age
		}
		if i == 0 || r.Age > o.AgeMax {
			o.AgeMax = r.Age
		}
	}
	o.Genders = withAll(genders)
	o.Countries = withAll(countries)
	return o
}

func withAll(set map[string]struct{}) []string {
	out := make([]string, 0, len(set)+1)
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return append([]string{AllValue}, out...)
}
