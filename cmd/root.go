package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/techpulse/internal/analysis"
	cfgpkg "github.com/KaramelBytes/techpulse/internal/config"
	"github.com/KaramelBytes/techpulse/internal/logging"
	"github.com/KaramelBytes/techpulse/internal/survey"
	"github.com/KaramelBytes/techpulse/internal/utils"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	dataPath  string
	logFormat string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "techpulse",
	Short: "techpulse: explore the Mental Health in Tech survey",
	Long: `techpulse loads the Mental Health in Tech survey CSV, cleans it, and lets you
filter respondents, summarize them, render charts, export the filtered rows,
or serve everything as a small dashboard API.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.techpulse/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "path to the survey CSV (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && dataPath != "" {
		cfg.DataPath = dataPath
	}
	if f.Changed("log-format") && logFormat != "" {
		cfg.LogFormat = logFormat
	}

	l, err := logging.New(os.Stderr, cfg.LogFormat, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using text logs\n", err)
		l, _ = logging.New(os.Stderr, logging.FormatText, debug)
	}
	logger = l
	slog.SetDefault(l)
}

// settings returns the loaded configuration, or defaults before loadConfig ran.
func settings() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Default()
	}
	return cfg
}

// resolveDataPath returns the survey path to load. A bare file name that does
// not exist in the working directory is looked up in parent directories.
func resolveDataPath() string {
	p := settings().DataPath
	if p == "" {
		p = "survey.csv"
	}
	if _, err := os.Stat(p); err == nil || filepath.Base(p) != p {
		return p
	}
	if found, err := utils.FindUp("", p); err == nil {
		logger.Debug("found survey in parent directory", "path", found)
		return found
	}
	return p
}

// analysisOptions maps configuration onto aggregation sizes.
func analysisOptions() analysis.Options {
	c := settings()
	opt := analysis.DefaultOptions()
	if c.TopCountries > 0 {
		opt.TopCountries = c.TopCountries
	}
	if c.CountryTreatmentTop > 0 {
		opt.CountryTreatmentTop = c.CountryTreatmentTop
	}
	if c.HistogramBins > 0 {
		opt.HistogramBins = c.HistogramBins
	}
	return opt
}

// loadTable loads and cleans the configured survey file.
func loadTable() (*survey.Table, string, error) {
	path := resolveDataPath()
	t, err := survey.NewLoader(survey.WithLogger(logger)).Load(path)
	if err != nil {
		var nf *survey.NotFoundError
		if errors.As(err, &nf) {
			return nil, path, fmt.Errorf("%w (set --data or data_path)", err)
		}
		return nil, path, err
	}
	logger.Debug("survey loaded", "path", path, "rows", t.Len(), "table_id", t.ID())
	return t, path, nil
}
