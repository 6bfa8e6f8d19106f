package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"gopresence/config"
	"gopresence/importer"
	"gopresence/storage"
)

func TestResolveDBPath(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Database: config.DatabaseConfig{Path: "./from-config.db"}}

	tests := []struct {
		name string
		flag string
		cfg  *config.Config
		want string
	}{
		{name: "flag wins", flag: "./flag.db", cfg: cfg, want: "./flag.db"},
		{name: "config fallback", flag: "  ", cfg: cfg, want: "./from-config.db"},
		{name: "default", flag: "", cfg: nil, want: "./gopresence.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveDBPath(tt.flag, tt.cfg); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStoreBatchPersistsImportedRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "punches.csv")
	content := "Employee;Date;Entry;Exit\n" +
		"James Izquierdo;2026-01-05;06:11;15:00\n" +
		"Maria Lopez;2026-01-05;NO MARCADO;NO MARCADO\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	mapper, err := importer.MapperForKind("attendance")
	if err != nil {
		t.Fatalf("mapper: %v", err)
	}
	result, err := importer.Run([]string{csvPath}, "", mapper)
	if err != nil {
		t.Fatalf("run importer: %v", err)
	}

	store, err := storage.OpenSQLite(filepath.Join(dir, "snapshot.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	stored, err := storeBatch(context.Background(), store, result.Batch)
	if err != nil {
		t.Fatalf("store batch: %v", err)
	}
	if stored != len(result.Batch.Attendance) {
		t.Fatalf("expected %d stored rows, got %d", len(result.Batch.Attendance), stored)
	}

	counts, err := store.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["attendance"] != stored {
		t.Fatalf("expected %d attendance rows in store, got %v", stored, counts)
	}
}

func TestImportFilesMergesDirectoryInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	operations := filepath.Join(dir, "operations.csv")
	finance := filepath.Join(dir, "finance.csv")
	if err := os.WriteFile(operations, []byte("Name;ID;Area\nJames Izquierdo;1001;Operations\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := os.WriteFile(finance, []byte("Name;ID;Area\nAna Ruiz;1002;Finance\nLuis Mora;1003;Finance\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	mapper, err := importer.MapperForKind("directory")
	if err != nil {
		t.Fatalf("mapper: %v", err)
	}
	store, err := storage.OpenSQLite(filepath.Join(dir, "snapshot.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	totals, persisted, err := importFiles(context.Background(), store, mapper, []string{operations, finance}, "", zap.NewNop())
	if err != nil {
		t.Fatalf("import files: %v", err)
	}
	if totals.FilesProcessed != 2 || persisted != 3 {
		t.Fatalf("expected 2 files and 3 persisted rows, got %+v and %d", totals, persisted)
	}

	entries, err := store.FetchEmployeeDirectory(context.Background())
	if err != nil {
		t.Fatalf("fetch directory: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected employees from both files, got %+v", entries)
	}

	counts, err := store.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["employees"] != 3 || counts["imports"] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
