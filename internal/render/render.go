// Package render draws analysis charts as PNG or SVG images.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/techpulse/internal/analysis"
)

// ErrNoData is returned for charts whose values are all zero.
var ErrNoData = errors.New("no data to render")

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case PNG, "":
		return PNG, nil
	case SVG:
		return SVG, nil
	default:
		return "", fmt.Errorf("unsupported image format %q (use png or svg)", s)
	}
}

// ContentType is the MIME type of images in this format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Options sizes the output image.
type Options struct {
	Width  int
	Height int
	Format Format
}

// DefaultOptions returns a 1024x512 PNG.
func DefaultOptions() Options {
	return Options{Width: 1024, Height: 512, Format: PNG}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Format == "" {
		o.Format = d.Format
	}
	return o
}

// Render writes c to w as an image.
func Render(w io.Writer, c *analysis.Chart, opt Options) error {
	if c == nil || c.Empty() {
		return ErrNoData
	}
	opt = opt.withDefaults()
	var err error
	switch c.Kind {
	case analysis.KindPie:
		err = pie(c, opt).Render(opt.Format.provider(), w)
	case analysis.KindBar, analysis.KindHorizontalBar, analysis.KindHistogram:
		err = bars(c, opt).Render(opt.Format.provider(), w)
	case analysis.KindGroupedBar:
		err = grouped(c, opt).Render(opt.Format.provider(), w)
	case analysis.KindStackedBar:
		err = stacked(c, opt).Render(opt.Format.provider(), w)
	default:
		return fmt.Errorf("render %s: unsupported chart kind %q", c.ID, c.Kind)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", c.ID, err)
	}
	return nil
}

// Bytes renders c into memory.
func Bytes(c *analysis.Chart, opt Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, c, opt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var palette = []string{
	"636efa", "ef553b", "00cc96", "ab63fa", "ffa15a",
	"19d3f3", "ff6692", "b6e880", "ff97ff", "fecb52",
}

var seriesColors = map[string]string{
	analysis.SeriesNoTreat:   "ef553b",
	analysis.SeriesSeekTreat: "00cc96",
}

func fill(hex string) chart.Style {
	col := drawing.ColorFromHex(hex)
	return chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1}
}

func paletteColor(i int) string { return palette[i%len(palette)] }

func seriesColor(name string, i int) string {
	if c, ok := seriesColors[name]; ok {
		return c
	}
	return paletteColor(i)
}

func title(c *analysis.Chart) string {
	if c.Kind == analysis.KindHistogram && c.Mean != nil {
		return fmt.Sprintf("%s (mean %.1f)", c.Title, *c.Mean)
	}
	return c.Title
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

func pie(c *analysis.Chart, opt Options) chart.PieChart {
	var values []chart.Value
	for i, label := range c.Labels {
		v := c.Series[0].Values[i]
		if v <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: label, Value: v, Style: fill(paletteColor(i))})
	}
	return chart.PieChart{
		Title:      c.Title,
		Background: background(),
		Width:      opt.Width,
		Height:     opt.Height,
		Values:     values,
	}
}

func bars(c *analysis.Chart, opt Options) chart.BarChart {
	s := c.Series[0]
	values := make([]chart.Value, len(c.Labels))
	for i, label := range c.Labels {
		col := paletteColor(0)
		if c.Kind != analysis.KindHistogram {
			col = paletteColor(i)
		}
		if c.Kind == analysis.KindHistogram {
			label = ""
		}
		values[i] = chart.Value{Label: label, Value: s.Values[i], Style: fill(col)}
	}
	return barChart(c, opt, values)
}

// grouped lays out each label's series side by side as adjacent bars.
func grouped(c *analysis.Chart, opt Options) chart.BarChart {
	var values []chart.Value
	for i, label := range c.Labels {
		for j, s := range c.Series {
			name := label
			if j > 0 {
				name = ""
			}
			values = append(values, chart.Value{Label: name, Value: s.Values[i], Style: fill(seriesColor(s.Name, j))})
		}
	}
	return barChart(c, opt, values)
}

func barChart(c *analysis.Chart, opt Options, values []chart.Value) chart.BarChart {
	width, spacing := barWidth(opt.Width, len(values))
	var top float64
	for _, v := range values {
		top = math.Max(top, v.Value)
	}
	if c.Percent {
		top = math.Max(top, 100)
	}
	return chart.BarChart{
		Title:      title(c),
		Background: background(),
		Width:      opt.Width,
		Height:     opt.Height,
		BarWidth:   width,
		BarSpacing: spacing,
		XAxis:      chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Name:  c.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: niceCeil(top)},
		},
		Bars: values,
	}
}

func stacked(c *analysis.Chart, opt Options) chart.StackedBarChart {
	width, spacing := barWidth(opt.Width, len(c.Labels))
	out := chart.StackedBarChart{
		Title:      c.Title,
		Background: background(),
		Width:      opt.Width,
		Height:     opt.Height,
		BarSpacing: spacing,
		XAxis:      chart.Style{FontSize: 8},
	}
	for i, label := range c.Labels {
		bar := chart.StackedBar{Name: label, Width: width}
		for j, s := range c.Series {
			bar.Values = append(bar.Values, chart.Value{Label: s.Name, Value: s.Values[i], Style: fill(seriesColor(s.Name, j))})
		}
		out.Bars = append(out.Bars, bar)
	}
	return out
}

// barWidth fits n bars into the plot area of a canvas width wide.
func barWidth(width, n int) (bar, spacing int) {
	if n <= 0 {
		return 40, 10
	}
	slot := (width - 120) / n
	spacing = slot / 5
	bar = slot - spacing
	if bar < 2 {
		bar = 2
	}
	if spacing < 1 {
		spacing = 1
	}
	return bar, spacing
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*exp >= v {
			return m * exp
		}
	}
	return 10 * exp
}
