package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/edaloom/internal/config"
	"github.com/KaramelBytes/edaloom/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration and logger
	cfg         *cfgpkg.Global
	logger      *slog.Logger
	closeLogger = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "edaloom",
	Short: "edaloom: exploratory data analysis for one tabular file",
	Long: `edaloom profiles a CSV or XLSX file, removes duplicate rows, imputes missing numeric values
with the column median, caps outliers with the IQR rule and renders a Markdown report with figures.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := executeRoot(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

// executeRoot executes the root command and flushes the logger on every path; cobra skips
// post-run hooks when a command fails.
func executeRoot() error {
	defer func() {
		closeLogger()
		closeLogger = func() {}
	}()
	err := rootCmd.Execute()
	if err != nil && logger != nil {
		logger.Error("command failed", "err", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.edaloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text|json (overrides config)")
}

// setup loads configuration and installs the logger before any subcommand runs.
func setup(cmd *cobra.Command) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	format := cfg.LogFormat
	if rootCmd.PersistentFlags().Changed("log-format") {
		format = logFormat
	}
	l, cleanup, err := logging.Setup(logging.Options{
		Level:  level,
		Format: format,
		SeqURL: cfg.SeqURL,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	logger = l
	closeLogger = cleanup
	return nil
}
