package analysis_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/techpulse/internal/analysis"
	"github.com/KaramelBytes/techpulse/internal/filter"
	"github.com/KaramelBytes/techpulse/internal/survey"
	"github.com/KaramelBytes/techpulse/internal/survey/surveytest"
)

func sample(t *testing.T) *survey.Table {
	t.Helper()
	tbl := surveytest.Table(t, surveytest.Sample()...)
	require.Equal(t, surveytest.SampleRetained, tbl.Len())
	return tbl
}

func TestValueCountsOrdering(t *testing.T) {
	tbl := sample(t)
	got := analysis.ValueCounts(tbl, survey.ColCountry)
	want := []analysis.CategoryCount{
		{Value: "United States", Count: 6},
		{Value: "Germany", Count: 3},
		{Value: "Canada", Count: 2},
		{Value: "United Kingdom", Count: 2},
		{Value: "Netherlands", Count: 1},
	}
	assert.Equal(t, want, got)

	genders := analysis.ValueCounts(tbl, survey.ColGender)
	require.Len(t, genders, 5)
	assert.Equal(t, analysis.CategoryCount{Value: survey.GenderMale, Count: 7}, genders[0])
	assert.Equal(t, analysis.CategoryCount{Value: survey.GenderFemale, Count: 4}, genders[1])
}

func TestValueCountsSkipsMissing(t *testing.T) {
	tbl := surveytest.Table(t,
		surveytest.Row{Comments: "great"},
		surveytest.Row{},
		surveytest.Row{Comments: "NA"},
	)
	got := analysis.ValueCounts(tbl, "comments")
	assert.Equal(t, []analysis.CategoryCount{{Value: "great", Count: 1}}, got)
	assert.Empty(t, analysis.ValueCounts(tbl, "no_such_column"))
}

func TestReindexWorkInterfere(t *testing.T) {
	tbl := sample(t)
	got := analysis.Reindex(analysis.ValueCounts(tbl, survey.ColWorkInterfere), survey.WorkInterfereOrder)
	want := []analysis.CategoryCount{
		{Value: "Never", Count: 2},
		{Value: "Rarely", Count: 2},
		{Value: "Sometimes", Count: 3},
		{Value: "Often", Count: 2},
		{Value: survey.NotApplicable, Count: 5},
	}
	assert.Equal(t, want, got)

	// Labels absent from the data are not invented.
	v := filter.Apply(tbl, filter.Criteria{Countries: filter.Only("Netherlands")})
	only := analysis.Reindex(analysis.ValueCounts(v, survey.ColWorkInterfere), survey.WorkInterfereOrder)
	assert.Equal(t, []analysis.CategoryCount{{Value: survey.NotApplicable, Count: 1}}, only)
}

func TestCrossTabPercent(t *testing.T) {
	tbl := sample(t)
	ct := analysis.CrossTabulate(tbl, survey.ColAgeGroup, survey.ColTreatment)
	assert.Equal(t, survey.AgeGroupLabels(), ct.Index)
	assert.Equal(t, []string{"No", "Yes"}, ct.Columns)
	assert.False(t, ct.Normalized)
	assert.Equal(t, []float64{1, 1}, ct.Values[0])

	p := ct.Percent()
	assert.True(t, p.Normalized)
	for i, row := range p.Values {
		assert.InDelta(t, 100, row[0]+row[1], 1e-9, "row %s", p.Index[i])
	}
	assert.InDeltaSlice(t, []float64{50, 40, 50, 100, 50}, p.Column("Yes"), 1e-9)
	// The source table is left untouched.
	assert.Equal(t, []float64{1, 1}, ct.Values[0])
}

func TestCrossTabWithColumnsFillsZero(t *testing.T) {
	tbl := surveytest.Table(t, surveytest.Row{Treatment: "Yes"}, surveytest.Row{Treatment: "Yes"})
	ct := analysis.CrossTabulate(tbl, survey.ColRemoteWork, survey.ColTreatment).WithColumns("No", "Yes")
	assert.Equal(t, []string{"No"}, ct.Index)
	assert.Equal(t, []float64{0}, ct.Column("No"))
	assert.Equal(t, []float64{2}, ct.Column("Yes"))
	assert.Nil(t, ct.Column("Maybe"))
}

func TestCrossTabSortAndRestrict(t *testing.T) {
	ct := &analysis.CrossTab{
		Index:   []string{"a", "b", "c"},
		Columns: []string{"No", "Yes"},
		Values:  [][]float64{{1, 3}, {2, 1}, {0, 3}},
	}
	sorted := ct.SortBy("Yes", true)
	assert.Equal(t, []string{"b", "a", "c"}, sorted.Index)
	assert.Equal(t, []string{"a", "c", "b"}, ct.SortBy("Yes", false).Index)
	assert.Equal(t, []string{"a", "c"}, ct.Restrict([]string{"c", "a", "z"}).Index)
	assert.Equal(t, []string{"c", "a", "b"}, ct.OrderIndex([]string{"c", "a"}).Index)
}

func TestHistogramTotals(t *testing.T) {
	tbl := sample(t)
	bins := analysis.Histogram(analysis.Ages(tbl), 30)
	require.Len(t, bins, 30)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, tbl.Len(), total)
	assert.Equal(t, 23.0, bins[0].Lower)
	assert.Equal(t, 60.0, bins[29].Upper)
	assert.Equal(t, 1, bins[29].Count)

	one := analysis.Histogram([]float64{42, 42}, 30)
	require.Len(t, one, 1)
	assert.Equal(t, 2, one[0].Count)
	assert.Nil(t, analysis.Histogram(nil, 30))
}

func TestDescribe(t *testing.T) {
	d := analysis.Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NotNil(t, d)
	assert.Equal(t, 8, d.Count)
	assert.InDelta(t, 5, d.Mean, 1e-9)
	assert.InDelta(t, 4.5, d.Median, 1e-9)
	assert.InDelta(t, 2.138089935, d.Std, 1e-6)
	assert.Equal(t, 2.0, d.Min)
	assert.Equal(t, 9.0, d.Max)

	assert.Nil(t, analysis.Describe(nil))
	assert.Equal(t, 0.0, analysis.Describe([]float64{3}).Std)
}

func TestKeyMetrics(t *testing.T) {
	tbl := sample(t)
	m := analysis.KeyMetrics(tbl)
	assert.Equal(t, 14, m.Total)
	require.NotNil(t, m.TreatmentPct)
	assert.InDelta(t, 50, *m.TreatmentPct, 1e-9)
	require.NotNil(t, m.FamilyHistoryPct)
	assert.InDelta(t, 50, *m.FamilyHistoryPct, 1e-9)
	require.NotNil(t, m.MeanAge)
	assert.InDelta(t, 534.0/14, *m.MeanAge, 1e-9)
	assert.Equal(t, 5, m.Countries)
}

func TestKeyMetricsEmptyViewIsUndefined(t *testing.T) {
	tbl := sample(t)
	v := filter.Apply(tbl, filter.Criteria{Countries: filter.Only()})
	m := analysis.KeyMetrics(v)
	assert.Equal(t, 0, m.Total)
	assert.Nil(t, m.TreatmentPct)
	assert.Nil(t, m.MeanAge)
	assert.Nil(t, m.FamilyHistoryPct)

	// JSON carries null, never NaN.
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"treatment_pct":null`)

	s := analysis.DataSummary(v, analysis.DefaultOptions())
	assert.Nil(t, s.Age)
	assert.Empty(t, s.Treatment)
}

func TestDataSummary(t *testing.T) {
	tbl := sample(t)
	s := analysis.DataSummary(tbl, analysis.DefaultOptions())
	assert.Equal(t, 14, s.Rows)
	require.Len(t, s.Treatment, 2)
	assert.Equal(t, "No", s.Treatment[0].Value)
	assert.InDelta(t, 50, s.Treatment[0].Percent, 1e-9)
	assert.Len(t, s.TopCountries, 5)
	require.NotNil(t, s.Age)
	assert.InDelta(t, 36, s.Age.Median, 1e-9)
	assert.Equal(t, 23.0, s.Age.Min)
	assert.Equal(t, 60.0, s.Age.Max)
}

func TestCatalog(t *testing.T) {
	specs := analysis.Catalog()
	require.Len(t, specs, 18)
	seen := map[string]bool{}
	for _, s := range specs {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
	assert.Equal(t, "treatment_distribution", specs[0].ID)
	assert.Equal(t, "country_treatment", specs[17].ID)

	_, err := analysis.BuildChart(sample(t), "nope", analysis.DefaultOptions())
	assert.True(t, errors.Is(err, analysis.ErrUnknownChart))
}

func TestBuildChartTreatmentByAgeGroup(t *testing.T) {
	c, err := analysis.BuildChart(sample(t), "treatment_by_age_group", analysis.Options{})
	require.NoError(t, err)
	assert.Equal(t, analysis.KindGroupedBar, c.Kind)
	assert.True(t, c.Percent)
	assert.Equal(t, survey.AgeGroupLabels(), c.Labels)
	require.Len(t, c.Series, 2)
	assert.Equal(t, analysis.SeriesNoTreat, c.Series[0].Name)
	assert.InDeltaSlice(t, []float64{50, 60, 50, 0, 50}, c.Series[0].Values, 1e-9)
}

func TestBuildChartCountryTreatment(t *testing.T) {
	tbl := sample(t)
	c, err := analysis.BuildChart(tbl, "country_treatment", analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Netherlands", "Canada", "United Kingdom", "United States", "Germany"}, c.Labels)

	opt := analysis.DefaultOptions()
	opt.CountryTreatmentTop = 3
	c, err = analysis.BuildChart(tbl, "country_treatment", opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"Canada", "United States", "Germany"}, c.Labels)
	assert.InDelta(t, 200.0/3, c.Series[1].Values[2], 1e-9)
}

func TestBuildChartsOnEmptyView(t *testing.T) {
	v := filter.Apply(sample(t), filter.Criteria{Genders: filter.Only()})
	for _, c := range analysis.BuildCharts(v, analysis.DefaultOptions()) {
		assert.True(t, c.Empty(), c.ID)
		assert.NotNil(t, c.Labels, c.ID)
	}
}

func TestReportMarkdown(t *testing.T) {
	tbl := sample(t)
	c := filter.Criteria{Countries: filter.Only("Germany")}
	v := filter.Apply(tbl, c)
	md := analysis.NewReport("survey.csv", v, tbl.Len(), c.Describe(), analysis.DefaultOptions()).Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: survey.csv",
		"Rows: 3 of 14",
		"[KEY METRICS]",
		"- Seeking treatment: 66.7%",
		"[DATA SUMMARY]",
		"- Top countries: Germany(3)",
		"[CHARTS]",
		"- country_treatment (stacked_hbar)",
	} {
		assert.True(t, strings.Contains(md, want), "missing %q in:\n%s", want, md)
	}
	assert.NotContains(t, md, "[NOTES]")

	empty := analysis.NewReport("survey.csv", filter.Apply(tbl, filter.Criteria{Countries: filter.Only()}), tbl.Len(), "", analysis.DefaultOptions())
	out := empty.Markdown()
	assert.Contains(t, out, "- Seeking treatment: n/a")
	assert.Contains(t, out, "[NOTES]")
}
