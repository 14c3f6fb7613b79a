package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/techpulse/internal/survey"
	"github.com/KaramelBytes/techpulse/internal/utils"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered respondents as CSV",
	Long: `Export writes the filtered rows, with every cleaned column including
age_group, as CSV. Use -o - to write to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _, err := loadView(cmd)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = settings().ExportName
		}
		if out == "" {
			out = survey.DefaultExportName
		}
		if out == "-" {
			return survey.WriteCSV(cmd.OutOrStdout(), v)
		}
		data, err := survey.MarshalCSV(v)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(out, data); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d rows to %s\n", v.Len(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default from export_file_name; - for stdout)")
}
