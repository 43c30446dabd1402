package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/edaloom/internal/analysis"
	"github.com/KaramelBytes/edaloom/internal/parser"
	"github.com/KaramelBytes/edaloom/internal/utils"
	"github.com/KaramelBytes/edaloom/internal/visualize"
	"github.com/spf13/cobra"
)

var (
	anaOutputDir     string
	anaPairplot      bool
	anaHeadRows      int
	anaMaxRows       int
	anaDelimiter     string
	anaDecimal       string
	anaThousands     string
	anaUnitNormalize bool
	anaSheetName     string
	anaSheetIndex    int
	anaNoCharts      bool
	anaQuiet         bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Profile, clean and visualize a CSV/TSV/XLSX file",
	Long: `Runs the fixed pipeline over one file: profile, drop duplicate rows, impute numeric
columns with their median, cap outliers to the IQR fences, then compute correlations and
render figures. The report and figures are written to <output-dir>/<file>-<run id>/.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		flags := cmd.Flags()

		settings := configIngestSettings()
		if flags.Changed("delimiter") {
			settings.Delimiter = anaDelimiter
		}
		if flags.Changed("decimal") {
			settings.Decimal = anaDecimal
		}
		if flags.Changed("thousands") {
			settings.Thousands = anaThousands
		}
		if flags.Changed("unit-normalize") {
			settings.UnitNormalize = anaUnitNormalize
		}
		if flags.Changed("max-rows") {
			settings.MaxRows = anaMaxRows
		}
		settings.SheetName = anaSheetName
		settings.SheetIndex = anaSheetIndex
		opt, err := settings.options()
		if err != nil {
			return err
		}

		ds, err := parser.LoadFile(path, opt)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		headRows := cfg.HeadRows
		if flags.Changed("head-rows") {
			headRows = anaHeadRows
		}
		pairplot := cfg.Pairplot
		if flags.Changed("pairplot") {
			pairplot = anaPairplot
		}
		rep := analysis.Run(ds, analysis.Options{HeadRows: headRows, Pairplot: pairplot, Logger: logger})

		if cfg.Charts && !anaNoCharts {
			if err := visualize.Render(rep, visualize.Options{Logger: logger}); err != nil {
				return err
			}
		}

		outRoot := cfg.OutputDir
		if flags.Changed("output-dir") {
			outRoot = anaOutputDir
		}
		dir, err := writeReport(outRoot, path, rep)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !anaQuiet {
			if err := rep.WriteText(out); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "✓ Wrote report to %s\n", filepath.Join(dir, "report.md"))
		return nil
	},
}

// writeReport stores report.md and its figures under a per-run directory and returns it.
func writeReport(outRoot, input string, rep *analysis.Report) (string, error) {
	if outRoot == "" {
		outRoot = "."
	}
	dir := filepath.Join(outRoot, utils.RunDirName(input, rep.RunID))
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	if len(rep.Figures) > 0 {
		figDir := filepath.Join(dir, "figures")
		if err := utils.EnsureDir(figDir); err != nil {
			return "", err
		}
		for _, f := range rep.Figures {
			if err := utils.SafeWriteFile(filepath.Join(figDir, f.Name), f.PNG); err != nil {
				return "", fmt.Errorf("write figure %s: %w", f.Name, err)
			}
		}
	}
	md := rep.Markdown(func(f analysis.Figure) string { return "figures/" + f.Name })
	if err := utils.SafeWriteFile(filepath.Join(dir, "report.md"), []byte(md)); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	logger.Info("report written", "run_id", rep.RunID, "dir", dir, "figures", len(rep.Figures))
	return dir, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputDir, "output-dir", "o", "eda-reports", "directory that receives the run directory (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaPairplot, "pairplot", false, "render the pairwise scatter matrix (may take time)")
	analyzeCmd.Flags().IntVar(&anaHeadRows, "head-rows", 10, "number of leading rows shown in the report")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "maximum rows to process (0 = unlimited)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (by extension if omitted)")
	analyzeCmd.Flags().StringVar(&anaDecimal, "decimal", ".", "decimal separator for numbers: '.'|'comma'|'auto'")
	analyzeCmd.Flags().StringVar(&anaThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'|'none'")
	analyzeCmd.Flags().BoolVar(&anaUnitNormalize, "unit-normalize", false, "convert g/L and ug/L to mg/L and °F to °C based on headers")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	analyzeCmd.Flags().BoolVar(&anaNoCharts, "no-charts", false, "skip figure rendering")
	analyzeCmd.Flags().BoolVarP(&anaQuiet, "quiet", "q", false, "only print the report location")
}
