package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gopresence/config"
	"gopresence/importer"
	"gopresence/storage"
)

var snapshotDBPath string

var (
	resetPromptInput  io.Reader = os.Stdin
	resetPromptOutput io.Writer = os.Stdout
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect or reset the local SQLite snapshot",
}

var snapshotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts and the latest import per kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveDBPath(snapshotDBPath, cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		return printSnapshotStatus(cmd, store)
	},
}

var snapshotResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the complete SQLite snapshot file",
	Long: `Destructive snapshot cleanup command.

This command deletes the complete SQLite snapshot file. Before deletion, an
interactive prompt requires typing exactly "Y".`,
	Example: `
  # Delete the snapshot (requires interactive confirmation)
  gopresence snapshot reset --db ./gopresence.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		path := resolveDBPath(snapshotDBPath, cfg)

		confirmed, err := confirmResetPrompt(resetPromptInput, resetPromptOutput, path)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("reset aborted: confirmation was not 'Y'")
		}

		if err := removeSnapshotFile(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot file: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotResetCmd)

	snapshotCmd.PersistentFlags().StringVar(&snapshotDBPath, "db", "", "Path to local SQLite database (default: database.path from config)")
}

func printSnapshotStatus(cmd *cobra.Command, store *storage.SQLiteStore) error {
	counts, err := store.Counts(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tROWS")
	for _, table := range []string{"employees", "attendance", "leave_ranges", "home_office", "leave_owners", "imports"} {
		fmt.Fprintf(w, "%s\t%d\n", table, counts[table])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "KIND\tLAST IMPORT\tFILE\tROWS")
	for _, kind := range importer.SupportedKinds() {
		run, err := store.LastImport(cmd.Context(), kind)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(w, "%s\t-\t-\t-\n", kind)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", kind, run.ImportedAt.Local().Format("2006-01-02 15:04"), run.SourceFile, run.Rows)
	}
	return w.Flush()
}

func confirmResetPrompt(input io.Reader, output io.Writer, path string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("reset confirmation input is not available")
	}
	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete snapshot file %q? Type Y to confirm: ", path); err != nil {
		return false, fmt.Errorf("write reset confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read reset confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeSnapshotFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("snapshot file not found: %s", path)
		}
		return fmt.Errorf("stat snapshot file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("snapshot path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete snapshot file: %w", err)
	}
	return nil
}
