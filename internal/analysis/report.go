package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/techpulse/internal/survey"
)

// Report bundles every aggregation of a view for text output.
type Report struct {
	Name     string   `json:"name" yaml:"name"`
	Filters  string   `json:"filters" yaml:"filters"`
	Rows     int      `json:"rows" yaml:"rows"`
	Total    int      `json:"total" yaml:"total"`
	Metrics  Metrics  `json:"metrics" yaml:"metrics"`
	Summary  Summary  `json:"summary" yaml:"summary"`
	Charts   []*Chart `json:"charts" yaml:"charts"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewReport aggregates rows. total is the size of the unfiltered table and
// filters a human description of the criteria that produced rows.
func NewReport(name string, rows survey.Rows, total int, filters string, opt Options) *Report {
	r := &Report{
		Name:    name,
		Filters: filters,
		Rows:    rows.Len(),
		Total:   total,
		Metrics: KeyMetrics(rows),
		Summary: DataSummary(rows, opt),
		Charts:  BuildCharts(rows, opt),
	}
	if r.Rows == 0 {
		r.Warnings = append(r.Warnings, "no respondents match the current filters")
	}
	return r
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Filters != "" {
		b.WriteString(fmt.Sprintf("Filters: %s\n", r.Filters))
	}
	b.WriteString(fmt.Sprintf("Rows: %d of %d\n\n", r.Rows, r.Total))

	b.WriteString("[KEY METRICS]\n")
	b.WriteString(fmt.Sprintf("- Total respondents: %d\n", r.Metrics.Total))
	b.WriteString(fmt.Sprintf("- Seeking treatment: %s\n", pct(r.Metrics.TreatmentPct)))
	b.WriteString(fmt.Sprintf("- Average age: %s\n", num(r.Metrics.MeanAge)))
	b.WriteString(fmt.Sprintf("- Family history: %s\n", pct(r.Metrics.FamilyHistoryPct)))
	b.WriteString(fmt.Sprintf("- Countries: %d\n", r.Metrics.Countries))

	b.WriteString("\n[DATA SUMMARY]\n")
	for _, s := range r.Summary.Treatment {
		b.WriteString(fmt.Sprintf("- Treatment %s: %d (%.1f%%)\n", safeVal(s.Value), s.Count, s.Percent))
	}
	if len(r.Summary.TopCountries) > 0 {
		b.WriteString("- Top countries: ")
		for i, c := range r.Summary.TopCountries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("%s(%d)", safeVal(c.Value), c.Count))
		}
		b.WriteString("\n")
	}
	if a := r.Summary.Age; a != nil {
		b.WriteString(fmt.Sprintf("- Age: mean %.1f, median %.1f, std %.1f, range %.0f-%.0f\n", a.Mean, a.Median, a.Std, a.Min, a.Max))
	}

	if len(r.Charts) > 0 {
		b.WriteString("\n[CHARTS]\n")
		for _, c := range r.Charts {
			b.WriteString(fmt.Sprintf("- %s (%s): %s\n", c.ID, c.Kind, c.Title))
			if c.Empty() {
				b.WriteString("  • no data\n")
				continue
			}
			writeChartBody(&b, c)
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeChartBody(b *strings.Builder, c *Chart) {
	if c.Kind == KindHistogram && c.Mean != nil {
		b.WriteString(fmt.Sprintf("  • mean: %.1f\n", *c.Mean))
	}
	if len(c.Series) == 1 {
		b.WriteString("  • ")
		first := true
		for i, label := range c.Labels {
			v := c.Series[0].Values[i]
			if c.Kind == KindHistogram && v == 0 {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(fmt.Sprintf("%s(%s)", safeVal(label), fmtValue(v, c.Percent)))
		}
		b.WriteString("\n")
		return
	}
	for i, label := range c.Labels {
		b.WriteString(fmt.Sprintf("  • %s:", safeVal(label)))
		for j, s := range c.Series {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(fmt.Sprintf(" %s %s", s.Name, fmtValue(s.Values[i], c.Percent)))
		}
		b.WriteString("\n")
	}
}

func fmtValue(v float64, percent bool) string {
	if percent {
		return fmt.Sprintf("%.1f%%", v)
	}
	return fmt.Sprintf("%.0f", v)
}

func pct(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *p)
}

func num(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *p)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
