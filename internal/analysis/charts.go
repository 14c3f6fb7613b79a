package analysis

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/techpulse/internal/survey"
)

// ErrUnknownChart is returned for ids missing from the catalog.
var ErrUnknownChart = errors.New("unknown chart")

// Kind tells a renderer how to draw a chart.
type Kind string

const (
	KindPie           Kind = "pie"
	KindBar           Kind = "bar"
	KindHorizontalBar Kind = "hbar"
	KindHistogram     Kind = "histogram"
	KindGroupedBar    Kind = "grouped_bar"
	KindStackedBar    Kind = "stacked_hbar"
)

// Series names used by the treatment breakdowns.
const (
	SeriesCount      = "Count"
	SeriesNoTreat    = "No Treatment"
	SeriesSeekTreat  = "Seeking Treatment"
	SeriesRespondent = "Respondents"
)

// Series is one set of values aligned with Chart.Labels.
type Series struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
}

// Chart is renderer-neutral chart data.
type Chart struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Kind    Kind     `json:"kind" yaml:"kind"`
	XLabel  string   `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	YLabel  string   `json:"y_label,omitempty" yaml:"y_label,omitempty"`
	Labels  []string `json:"labels" yaml:"labels"`
	Series  []Series `json:"series" yaml:"series"`
	Percent bool     `json:"percent,omitempty" yaml:"percent,omitempty"`
	Mean    *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Bins    []Bin    `json:"bins,omitempty" yaml:"bins,omitempty"`
}

// Empty reports whether the chart has nothing to draw.
func (c *Chart) Empty() bool {
	for _, s := range c.Series {
		for _, v := range s.Values {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// Spec describes a catalog entry without data.
type Spec struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Kind  Kind   `json:"kind" yaml:"kind"`
}

type chartDef struct {
	Spec
	xLabel, yLabel string
	build          func(c *Chart, rows survey.Rows, opt Options)
}

var catalog = []chartDef{
	{Spec: Spec{"treatment_distribution", "Seeking Mental Health Treatment", KindPie},
		build: counts(survey.ColTreatment, nil)},
	{Spec: Spec{"family_history", "Family History of Mental Illness", KindBar},
		xLabel: "Family History", yLabel: "Count",
		build: counts(survey.ColFamilyHistory, nil)},
	{Spec: Spec{"work_interference", "How Often Does Mental Health Interfere with Work?", KindBar},
		xLabel: "Frequency of Interference", yLabel: "Number of Respondents",
		build: counts(survey.ColWorkInterfere, survey.WorkInterfereOrder)},
	{Spec: Spec{"age_distribution", "Age Distribution", KindHistogram},
		xLabel: "Age", yLabel: "Frequency",
		build: ageHistogram},
	{Spec: Spec{"gender_distribution", "Gender Distribution", KindBar},
		xLabel: "Gender", yLabel: "Count",
		build: counts(survey.ColGender, nil)},
	{Spec: Spec{"treatment_by_age_group", "Treatment by Age Group", KindGroupedBar},
		xLabel: "Age Group", yLabel: "Percentage (%)",
		build: treatmentBy(survey.ColAgeGroup, survey.AgeGroupLabels(), true)},
	{Spec: Spec{"treatment_by_gender", "Treatment Seeking by Gender", KindGroupedBar},
		xLabel: "Gender", yLabel: "Percentage (%)",
		build: treatmentBy(survey.ColGender, nil, true)},
	{Spec: Spec{"treatment_by_company_size", "Treatment by Company Size", KindGroupedBar},
		xLabel: "Company Size (Employees)", yLabel: "Percentage (%)",
		build: treatmentBy(survey.ColNoEmployees, nil, true)},
	{Spec: Spec{"treatment_by_tech_company", "Tech vs Non-Tech Companies", KindGroupedBar},
		xLabel: "Tech Company", yLabel: "Percentage (%)",
		build: treatmentBy(survey.ColTechCompany, nil, true)},
	{Spec: Spec{"remote_work_treatment", "Remote Work vs Treatment", KindGroupedBar},
		xLabel: "Remote Work", yLabel: "Count",
		build: treatmentBy(survey.ColRemoteWork, nil, false)},
	{Spec: Spec{"benefits", "Do Employers Provide Mental Health Benefits?", KindPie},
		build: counts(survey.ColBenefits, nil)},
	{Spec: Spec{"family_history_treatment", "Impact of Family History on Treatment Seeking", KindGroupedBar},
		xLabel: "Family History of Mental Illness", yLabel: "Percentage (%)",
		build: treatmentBy(survey.ColFamilyHistory, nil, true)},
	{Spec: Spec{"consequence_fear", "Discussing Mental Health with Employer", KindPie},
		build: counts(survey.ColConsequence, nil)},
	{Spec: Spec{"mental_vs_physical", "Equality of Treatment", KindBar},
		xLabel: "Employer Takes Mental Health as Seriously as Physical", yLabel: "Count",
		build: counts(survey.ColMentalPhysical, nil)},
	{Spec: Spec{"coworkers", "With Coworkers", KindBar},
		xLabel: "Willingness", yLabel: "Count",
		build: counts(survey.ColCoworkers, nil)},
	{Spec: Spec{"supervisor", "With Supervisor", KindBar},
		xLabel: "Willingness", yLabel: "Count",
		build: counts(survey.ColSupervisor, nil)},
	{Spec: Spec{"top_countries", "Respondents by Country", KindHorizontalBar},
		xLabel: "Number of Respondents", yLabel: "Country",
		build: topCountries},
	{Spec: Spec{"country_treatment", "Treatment Rates by Country", KindStackedBar},
		xLabel: "Percentage (%)", yLabel: "Country",
		build: countryTreatment},
}

// Catalog lists every chart in dashboard order.
func Catalog() []Spec {
	out := make([]Spec, len(catalog))
	for i, d := range catalog {
		out[i] = d.Spec
	}
	return out
}

// BuildChart computes one catalog chart over rows.
func BuildChart(rows survey.Rows, id string, opt Options) (*Chart, error) {
	for _, d := range catalog {
		if d.ID == id {
			return d.chart(rows, opt.withDefaults()), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChart, id)
}

// BuildCharts computes the whole catalog over rows.
func BuildCharts(rows survey.Rows, opt Options) []*Chart {
	opt = opt.withDefaults()
	out := make([]*Chart, len(catalog))
	for i, d := range catalog {
		out[i] = d.chart(rows, opt)
	}
	return out
}

func (d chartDef) chart(rows survey.Rows, opt Options) *Chart {
	c := &Chart{ID: d.ID, Title: d.Title, Kind: d.Kind, XLabel: d.xLabel, YLabel: d.yLabel}
	d.build(c, rows, opt)
	if c.Labels == nil {
		c.Labels = []string{}
	}
	return c
}

func counts(col string, order []string) func(*Chart, survey.Rows, Options) {
	return func(c *Chart, rows survey.Rows, _ Options) {
		vc := ValueCounts(rows, col)
		if order != nil {
			vc = Reindex(vc, order)
		}
		setCounts(c, vc, SeriesCount)
	}
}

func setCounts(c *Chart, vc []CategoryCount, name string) {
	s := Series{Name: name, Values: make([]float64, len(vc))}
	for i, e := range vc {
		c.Labels = append(c.Labels, e.Value)
		s.Values[i] = float64(e.Count)
	}
	c.Series = []Series{s}
}

// treatmentBy cross-tabulates col against treatment. Both No and Yes series
// are always present.
func treatmentBy(col string, order []string, percent bool) func(*Chart, survey.Rows, Options) {
	return func(c *Chart, rows survey.Rows, _ Options) {
		ct := CrossTabulate(rows, col, survey.ColTreatment)
		if percent {
			ct = ct.Percent()
		}
		if order != nil {
			ct = ct.OrderIndex(order)
		}
		setTreatment(c, ct.WithColumns(survey.No, survey.Yes))
		c.Percent = percent
	}
}

func setTreatment(c *Chart, ct *CrossTab) {
	c.Labels = append(c.Labels, ct.Index...)
	c.Series = []Series{
		{Name: SeriesNoTreat, Values: ct.Column(survey.No)},
		{Name: SeriesSeekTreat, Values: ct.Column(survey.Yes)},
	}
}

func ageHistogram(c *Chart, rows survey.Rows, opt Options) {
	ages := Ages(rows)
	c.Bins = Histogram(ages, opt.HistogramBins)
	s := Series{Name: SeriesCount, Values: make([]float64, len(c.Bins))}
	for i, b := range c.Bins {
		c.Labels = append(c.Labels, fmt.Sprintf("%.1f-%.1f", b.Lower, b.Upper))
		s.Values[i] = float64(b.Count)
	}
	c.Series = []Series{s}
	if d := Describe(ages); d != nil {
		c.Mean = ptr(d.Mean)
	}
}

func topCountries(c *Chart, rows survey.Rows, opt Options) {
	setCounts(c, Head(ValueCounts(rows, survey.ColCountry), opt.TopCountries), SeriesRespondent)
}

func countryTreatment(c *Chart, rows survey.Rows, opt Options) {
	top := Head(ValueCounts(rows, survey.ColCountry), opt.CountryTreatmentTop)
	keep := make([]string, len(top))
	for i, e := range top {
		keep[i] = e.Value
	}
	ct := CrossTabulate(rows, survey.ColCountry, survey.ColTreatment).
		Restrict(keep).
		Percent().
		WithColumns(survey.No, survey.Yes).
		SortBy(survey.Yes, true)
	setTreatment(c, ct)
	c.Percent = true
}
