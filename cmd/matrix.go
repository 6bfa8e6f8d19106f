package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gopresence/calendar"
	"gopresence/config"
	"gopresence/output"
)

var (
	matrixMonth       string
	matrixSource      string
	matrixView        string
	matrixArea        string
	matrixTimes       bool
	matrixFormat      string
	matrixOutput      string
	matrixDailyOutput string
	matrixDBPath      string
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Build the monthly attendance matrix and write it as CSV, Excel, or JSON",
	Long: `Gather all selected sources for one month and reconcile them into one status
per employee per day.

Status precedence per day: vacation, medical leave, home office, attendance,
holiday, absence (past weekdays only), no data.

Cell codes in CSV/Excel: A attendance (A* late), V vacation, M medical leave,
HO home office, H holiday, F absence, empty for no data. With --times the
entry time is printed instead of A.

Per-employee totals are appended as columns. With --daily a second file with
per-day counters is written.`,
	Example: `
  # Current month from the local snapshot as CSV
  gopresence matrix

  # January 2026 from upstream as Excel with entry times
  gopresence matrix --month 2026-01 --source upstream --format excel --times --output ./jan.xlsx

  # Attendance-only view for one area, with a daily summary
  gopresence matrix --month 2026-01 --view attendance --area "Operations" --daily ./jan-daily.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		month, err := resolveMonth(matrixMonth, time.Now())
		if err != nil {
			return err
		}

		writer, err := output.MatrixWriterForFormat(matrixFormat, output.TableOptions{Times: matrixTimes})
		if err != nil {
			return err
		}

		client, closeClient, err := openCollaborator(cfg, matrixSource, matrixDBPath)
		if err != nil {
			return err
		}
		defer closeClient()

		builder, err := newMatrixBuilder(cfg, client, matrixView, matrixArea, logger)
		if err != nil {
			return err
		}

		matrix, failures, err := builder.Build(cmd.Context(), month)
		if err != nil {
			return err
		}
		for _, failure := range failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", failure)
		}

		outputPath := resolveMatrixOutputPath(matrixOutput, month, matrixFormat)
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		if err := writer.Write(outputPath, matrix); err != nil {
			return err
		}

		if strings.TrimSpace(matrixDailyOutput) != "" {
			dailyFormat := formatFromPath(matrixDailyOutput, matrixFormat)
			if err := output.WriteDailySummaries(matrixDailyOutput, dailyFormat, output.BuildDailySummaries(matrix)); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Matrix completed. Month: %s, Employees: %d, Days: %d, Source failures: %d, Output: %s\n",
			month.Key(),
			len(matrix.Employees),
			len(matrix.Days),
			len(failures),
			outputPath,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matrixCmd)

	matrixCmd.Flags().StringVar(&matrixMonth, "month", "", "Month to build, format YYYY-MM (default: current month)")
	matrixCmd.Flags().StringVar(&matrixSource, "source", sourceLocal, "Source backend: local|upstream")
	matrixCmd.Flags().StringVar(&matrixView, "view", "", "Configured view selecting the sources (default: all sources)")
	matrixCmd.Flags().StringVar(&matrixArea, "area", "", "Only include employees of this area")
	matrixCmd.Flags().BoolVar(&matrixTimes, "times", false, "Print entry times instead of the attendance code")
	matrixCmd.Flags().StringVarP(&matrixFormat, "format", "f", "csv", "Output format: csv|excel|json")
	matrixCmd.Flags().StringVarP(&matrixOutput, "output", "o", "", "Output file path (default: ./matrix-<month>.<ext>)")
	matrixCmd.Flags().StringVar(&matrixDailyOutput, "daily", "", "Optional daily summary output path (format from extension)")
	matrixCmd.Flags().StringVar(&matrixDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
}

func resolveMonth(raw string, now time.Time) (calendar.Month, error) {
	if strings.TrimSpace(raw) == "" {
		return calendar.Today(now).MonthOf(), nil
	}
	month, err := calendar.ParseMonth(raw)
	if err != nil {
		return calendar.Month{}, fmt.Errorf("invalid --month value: %w", err)
	}
	return month, nil
}

func resolveMatrixOutputPath(path string, month calendar.Month, format string) string {
	if strings.TrimSpace(path) != "" {
		return path
	}
	return "./matrix-" + month.Key() + output.ExtensionForFormat(format)
}

func formatFromPath(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".xlsx", ".xlsm":
		return "excel"
	case ".json":
		return "json"
	default:
		return fallback
	}
}
