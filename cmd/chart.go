package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/techpulse/internal/analysis"
	"github.com/KaramelBytes/techpulse/internal/filter"
	"github.com/KaramelBytes/techpulse/internal/render"
	"github.com/KaramelBytes/techpulse/internal/utils"
)

var (
	chartList   bool
	chartAll    bool
	chartFormat string
	chartOut    string
	chartWidth  int
	chartHeight int
	chartJobs   int
)

var chartCmd = &cobra.Command{
	Use:   "chart [id]",
	Short: "Render a dashboard chart for the filtered respondents",
	Example: `  techpulse chart --list
  techpulse chart treatment_by_gender --country Canada
  techpulse chart age_distribution --format svg -o ages.svg
  techpulse chart --all -o charts/`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if chartList {
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tTITLE")
			for _, s := range analysis.Catalog() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Kind, s.Title)
			}
			return tw.Flush()
		}
		if chartAll == (len(args) == 1) {
			return fmt.Errorf("specify exactly one chart id or --all (see --list)")
		}

		format := strings.ToLower(chartFormat)
		if format != "json" {
			if _, err := render.ParseFormat(format); err != nil {
				return err
			}
		}

		v, _, err := loadView(cmd)
		if err != nil {
			return err
		}
		if chartAll {
			return renderAll(cmd, v, format)
		}

		c, err := analysis.BuildChart(v, args[0], analysisOptions())
		if err != nil {
			return err
		}
		path := chartOut
		if path == "" {
			path = c.ID + "." + format
		}
		data, err := chartBytes(c, format)
		if err != nil {
			if errors.Is(err, render.ErrNoData) {
				return fmt.Errorf("chart %s: %w for the current filters", c.ID, err)
			}
			return err
		}
		if path == "-" {
			_, err := out.Write(data)
			return err
		}
		if err := utils.SafeWriteFile(path, data); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote %s to %s\n", c.ID, path)
		return nil
	},
}

// renderAll writes every catalog chart into the -o directory, skipping
// charts that have no data under the current filters.
func renderAll(cmd *cobra.Command, v *filter.View, format string) error {
	dir := chartOut
	if dir == "" || dir == "-" {
		dir = "charts"
	}
	charts := analysis.BuildCharts(v, analysisOptions())

	var (
		mu      sync.Mutex
		written int
		skipped []string
	)
	g := new(errgroup.Group)
	g.SetLimit(max(chartJobs, 1))
	for _, c := range charts {
		g.Go(func() error {
			data, err := chartBytes(c, format)
			if errors.Is(err, render.ErrNoData) {
				mu.Lock()
				skipped = append(skipped, c.ID)
				mu.Unlock()
				return nil
			}
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(filepath.Join(dir, c.ID+"."+format), data); err != nil {
				return fmt.Errorf("write chart %s: %w", c.ID, err)
			}
			mu.Lock()
			written++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if len(skipped) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: no data for %s\n", strings.Join(skipped, ", "))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d charts to %s\n", written, dir)
	return nil
}

func chartBytes(c *analysis.Chart, format string) ([]byte, error) {
	if format == "json" {
		if c.Empty() {
			return nil, render.ErrNoData
		}
		b, err := utils.PrettyJSON(c)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	opt := renderOptions()
	f, _ := render.ParseFormat(format)
	opt.Format = f
	return render.Bytes(c, opt)
}

// renderOptions maps configuration and --width/--height onto image options.
func renderOptions() render.Options {
	c := settings()
	opt := render.DefaultOptions()
	if c.ChartWidth > 0 {
		opt.Width = c.ChartWidth
	}
	if c.ChartHeight > 0 {
		opt.Height = c.ChartHeight
	}
	if chartWidth > 0 {
		opt.Width = chartWidth
	}
	if chartHeight > 0 {
		opt.Height = chartHeight
	}
	return opt
}

func init() {
	rootCmd.AddCommand(chartCmd)
	addFilterFlags(chartCmd)
	chartCmd.Flags().BoolVar(&chartList, "list", false, "list available chart ids")
	chartCmd.Flags().BoolVar(&chartAll, "all", false, "render every chart into the -o directory")
	chartCmd.Flags().StringVar(&chartFormat, "format", "png", "output format: png|svg|json")
	chartCmd.Flags().StringVarP(&chartOut, "output", "o", "", "output file (default <id>.<format>), directory with --all, - for stdout")
	chartCmd.Flags().IntVar(&chartWidth, "width", 0, "image width in pixels (overrides chart_width)")
	chartCmd.Flags().IntVar(&chartHeight, "height", 0, "image height in pixels (overrides chart_height)")
	chartCmd.Flags().IntVar(&chartJobs, "jobs", 4, "charts rendered concurrently with --all")
}
