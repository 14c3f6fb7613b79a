package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/techpulse/internal/analysis"
	"github.com/KaramelBytes/techpulse/internal/utils"
)

var (
	sumFormat string
	sumOut    string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the filtered respondents: key metrics, top countries and every chart",
	Example: `  techpulse summary
  techpulse summary --country "United States" --treatment Yes
  techpulse summary --age-min 25 --age-max 40 --format json -o summary.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, path, err := loadView(cmd)
		if err != nil {
			return err
		}
		rep := analysis.NewReport(filepath.Base(path), v, viewTotal(v), v.Criteria().Describe(), analysisOptions())

		var data []byte
		switch strings.ToLower(sumFormat) {
		case "", "markdown", "md":
			data = []byte(rep.Markdown())
		case "json":
			if data, err = utils.PrettyJSON(rep); err != nil {
				return err
			}
			data = append(data, '\n')
		case "yaml", "yml":
			if data, err = utils.PrettyYAML(rep); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid --format: %s (use markdown, json or yaml)", sumFormat)
		}

		if sumOut == "" || sumOut == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := utils.SafeWriteFile(sumOut, data); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", sumOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addFilterFlags(summaryCmd)
	summaryCmd.Flags().StringVar(&sumFormat, "format", "markdown", "output format: markdown|json|yaml")
	summaryCmd.Flags().StringVarP(&sumOut, "output", "o", "", "write to file instead of stdout")
}
