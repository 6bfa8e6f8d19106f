package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gopresence/config"
	"gopresence/importer"
	"gopresence/storage"
)

var (
	importInputs []string
	importFormat string
	importKind   string
	importDBPath string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV/Excel exports into the local SQLite snapshot",
	Long: `Read raw exports, map each row according to --kind, and persist them in SQLite.

Supported kinds:
- directory:   employee directory (replaces the stored directory)
- attendance:  daily punches with entry/exit times
- vacation:    approved vacation ranges
- medical:     approved medical leave ranges
- home_office: home office declarations
- leave_owner: leave-system id to employee identity translations

When --format is omitted, format is inferred from each input file extension.
Headers are matched case- and accent-insensitively in English and Spanish.`,
	Example: `
  # Import the employee directory
  gopresence import --kind directory -i employees.xlsx

  # Import several attendance exports
  gopresence import --kind attendance -i punches-2026-01.csv -i punches-2026-02.csv

  # Import tab separated vacation ranges into a custom database
  gopresence import --kind vacation -i vacations.txt --format tsv --db ./snapshot.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		mapper, err := importer.MapperForKind(importKind)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveDBPath(importDBPath, cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		totals, persisted, err := importFiles(cmd.Context(), store, mapper, importInputs, importFormat, logger)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Import completed. Kind: %s, Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Rows persisted: %d\n",
			mapper.Name(),
			totals.FilesProcessed,
			totals.RowsRead,
			totals.RowsMapped,
			totals.RowsSkipped,
			persisted,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|tsv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVarP(&importKind, "kind", "k", "", "Record kind: "+strings.Join(importer.SupportedKinds(), "|"))
	importCmd.Flags().StringVar(&importDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")

	_ = importCmd.MarkFlagRequired("input")
	_ = importCmd.MarkFlagRequired("kind")
}

// importFiles maps and stores each input file and records one import run per
// stored batch. Directory files are merged into a single batch first, since
// storing a directory replaces the previous one.
func importFiles(ctx context.Context, store *storage.SQLiteStore, mapper importer.Mapper, paths []string, format string, log *zap.Logger) (importer.Result, int, error) {
	if log == nil {
		log = zap.NewNop()
	}

	groups := make([][]string, 0, len(paths))
	if mapper.Name() == importer.KindDirectory {
		groups = append(groups, paths)
	} else {
		for _, path := range paths {
			groups = append(groups, []string{path})
		}
	}

	var totals importer.Result
	persisted := 0
	for _, group := range groups {
		result, err := importer.Run(group, format, mapper)
		if err != nil {
			return totals, persisted, err
		}

		label := strings.Join(group, ",")
		stored, err := storeBatch(ctx, store, result.Batch)
		if err != nil {
			return totals, persisted, fmt.Errorf("store %s: %w", label, err)
		}
		run, err := store.RecordImport(ctx, mapper.Name(), label, stored)
		if err != nil {
			return totals, persisted, err
		}
		log.Info("file imported",
			zap.String("import_id", run.ID),
			zap.String("kind", run.Kind),
			zap.String("file", label),
			zap.Int("rows", stored),
		)

		totals.FilesProcessed += result.FilesProcessed
		totals.RowsRead += result.RowsRead
		totals.RowsMapped += result.RowsMapped
		totals.RowsSkipped += result.RowsSkipped
		persisted += stored
	}
	return totals, persisted, nil
}

// storeBatch persists every non-empty part of batch and returns the number
// of rows written.
func storeBatch(ctx context.Context, store *storage.SQLiteStore, batch importer.Batch) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	total := 0
	steps := []struct {
		present bool
		write   func() (int, error)
	}{
		{len(batch.Directory) > 0, func() (int, error) { return store.ReplaceDirectory(ctx, batch.Directory) }},
		{len(batch.Attendance) > 0, func() (int, error) { return store.InsertAttendance(ctx, batch.Attendance) }},
		{len(batch.Leave) > 0, func() (int, error) { return store.InsertLeaveRanges(ctx, batch.Leave) }},
		{len(batch.HomeOffice) > 0, func() (int, error) { return store.InsertHomeOffice(ctx, batch.HomeOffice) }},
		{len(batch.LeaveOwners) > 0, func() (int, error) { return store.UpsertLeaveOwners(ctx, batch.LeaveOwners) }},
	}
	for _, step := range steps {
		if !step.present {
			continue
		}
		written, err := step.write()
		if err != nil {
			return total, err
		}
		total += written
	}
	return total, nil
}

func resolveDBPath(flagValue string, cfg *config.Config) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if cfg != nil && strings.TrimSpace(cfg.Database.Path) != "" {
		return cfg.Database.Path
	}
	return "./gopresence.db"
}
