package analysis

import (
	"github.com/KaramelBytes/techpulse/internal/survey"
)

// Options controls the aggregation sizes used by the chart catalog and the
// data summary.
type Options struct {
	// TopCountries is how many countries the top_countries chart shows.
	TopCountries int
	// CountryTreatmentTop is how many countries enter country_treatment.
	CountryTreatmentTop int
	// HistogramBins is the bin count of age_distribution.
	HistogramBins int
	// SummaryCountries is how many countries the data summary lists.
	SummaryCountries int
}

// DefaultOptions returns the sizes the dashboard ships with.
func DefaultOptions() Options {
	return Options{
		TopCountries:        15,
		CountryTreatmentTop: 10,
		HistogramBins:       30,
		SummaryCountries:    5,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopCountries <= 0 {
		o.TopCountries = d.TopCountries
	}
	if o.CountryTreatmentTop <= 0 {
		o.CountryTreatmentTop = d.CountryTreatmentTop
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = d.HistogramBins
	}
	if o.SummaryCountries <= 0 {
		o.SummaryCountries = d.SummaryCountries
	}
	return o
}

// Metrics are the headline numbers of a view. Ratios are nil when the view is
// empty.
type Metrics struct {
	Total            int      `json:"total" yaml:"total"`
	TreatmentPct     *float64 `json:"treatment_pct" yaml:"treatment_pct"`
	MeanAge          *float64 `json:"mean_age" yaml:"mean_age"`
	FamilyHistoryPct *float64 `json:"family_history_pct" yaml:"family_history_pct"`
	Countries        int      `json:"countries" yaml:"countries"`
}

// KeyMetrics computes the headline numbers for rows.
func KeyMetrics(rows survey.Rows) Metrics {
	m := Metrics{Total: rows.Len()}
	if m.Total == 0 {
		return m
	}
	var treated, family, ageSum int
	countries := map[string]struct{}{}
	for i := 0; i < rows.Len(); i++ {
		r := rows.Record(i)
		if r.Treatment == survey.Yes {
			treated++
		}
		if r.FamilyHistory == survey.Yes {
			family++
		}
		ageSum += r.Age
		if v, ok := r.Value(survey.ColCountry); ok && !v.Missing {
			countries[v.Text] = struct{}{}
		}
	}
	n := float64(m.Total)
	m.TreatmentPct = ptr(float64(treated) / n * 100)
	m.FamilyHistoryPct = ptr(float64(family) / n * 100)
	m.MeanAge = ptr(float64(ageSum) / n)
	m.Countries = len(countries)
	return m
}

// Share is a category count with its percentage of all rows in the view.
type Share struct {
	Value   string  `json:"value" yaml:"value"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Summary is the footer block of the dashboard.
type Summary struct {
	Rows         int             `json:"rows" yaml:"rows"`
	Treatment    []Share         `json:"treatment" yaml:"treatment"`
	TopCountries []CategoryCount `json:"top_countries" yaml:"top_countries"`
	Age          *NumSummary     `json:"age" yaml:"age"`
}

// DataSummary computes treatment shares, the leading countries and age
// statistics for rows.
func DataSummary(rows survey.Rows, opt Options) Summary {
	opt = opt.withDefaults()
	s := Summary{Rows: rows.Len()}
	for _, c := range ValueCounts(rows, survey.ColTreatment) {
		s.Treatment = append(s.Treatment, Share{
			Value:   c.Value,
			Count:   c.Count,
			Percent: float64(c.Count) / float64(s.Rows) * 100,
		})
	}
	s.TopCountries = Head(ValueCounts(rows, survey.ColCountry), opt.SummaryCountries)
	s.Age = Describe(Ages(rows))
	return s
}

func ptr(f float64) *float64 { return &f }
