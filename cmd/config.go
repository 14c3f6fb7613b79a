package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/techpulse/internal/config"
	"github.com/KaramelBytes/techpulse/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set techpulse configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_path: %s\n", c.DataPath)
		fmt.Fprintf(out, "watch_data: %t\n", c.WatchData)
		fmt.Fprintf(out, "export_file_name: %s\n", c.ExportName)
		fmt.Fprintf(out, "listen_addr: %s\n", c.ListenAddr)
		fmt.Fprintf(out, "allowed_origins: %s\n", strings.Join(c.AllowedOrigins, ","))
		fmt.Fprintf(out, "top_countries: %d\n", c.TopCountries)
		fmt.Fprintf(out, "country_treatment_top: %d\n", c.CountryTreatmentTop)
		fmt.Fprintf(out, "histogram_bins: %d\n", c.HistogramBins)
		fmt.Fprintf(out, "chart_width: %d\n", c.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", c.ChartHeight)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Set a config value and save to disk",
	Args:      cobra.ExactArgs(2),
	ValidArgs: cfgpkg.Keys,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the stored config so --data and --log-format stay per-run.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "data_path":
			c.DataPath = val
		case "watch_data":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for watch_data: %v", val)
			}
			c.WatchData = b
		case "export_file_name":
			if strings.TrimSpace(val) == "" {
				return fmt.Errorf("export_file_name cannot be empty")
			}
			c.ExportName = val
		case "listen_addr":
			c.ListenAddr = val
		case "allowed_origins":
			var origins []string
			for _, o := range strings.Split(val, ",") {
				if o = strings.TrimSpace(o); o != "" {
					origins = append(origins, o)
				}
			}
			c.AllowedOrigins = origins
		case "top_countries", "country_treatment_top", "histogram_bins", "chart_width", "chart_height":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			setIntKey(c, key, i)
		case "log_format":
			switch strings.ToLower(val) {
			case logging.FormatText, logging.FormatJSON:
				c.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s (valid: %s)", key, strings.Join(cfgpkg.Keys, ", "))
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setIntKey(c *cfgpkg.Global, key string, i int) {
	switch key {
	case "top_countries":
		c.TopCountries = i
	case "country_treatment_top":
		c.CountryTreatmentTop = i
	case "histogram_bins":
		c.HistogramBins = i
	case "chart_width":
		c.ChartWidth = i
	case "chart_height":
		c.ChartHeight = i
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
