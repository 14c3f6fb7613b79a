package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/techpulse/internal/filter"
	"github.com/KaramelBytes/techpulse/internal/utils"
)

var optFormat string

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the values each filter accepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, _, err := loadTable()
		if err != nil {
			return err
		}
		opts := filter.OptionsFor(t)
		out := cmd.OutOrStdout()
		switch strings.ToLower(optFormat) {
		case "", "text":
			fmt.Fprintf(out, "gender: %s\n", strings.Join(opts.Genders, ", "))
			fmt.Fprintf(out, "country: %s\n", strings.Join(opts.Countries, ", "))
			fmt.Fprintf(out, "age: %d-%d\n", opts.AgeMin, opts.AgeMax)
			fmt.Fprintf(out, "treatment: %s\n", strings.Join(opts.Treatment, ", "))
			return nil
		case "json":
			b, err := utils.PrettyJSON(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		case "yaml":
			b, err := utils.PrettyYAML(opts)
			if err != nil {
				return err
			}
			fmt.Fprint(out, string(b))
			return nil
		default:
			return fmt.Errorf("invalid --format: %s (use text, json or yaml)", optFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	optionsCmd.Flags().StringVar(&optFormat, "format", "text", "output format: text|json|yaml")
}
