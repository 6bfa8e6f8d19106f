package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestConfirmResetPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "uppercase Y confirms", input: "Y\n", want: true},
		{name: "lowercase y does not confirm", input: "y\n", want: false},
		{name: "empty does not confirm", input: "\n", want: false},
		{name: "Y without newline confirms", input: "Y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			got, err := confirmResetPrompt(strings.NewReader(tt.input), &out, "./gopresence.db")
			if err != nil {
				t.Fatalf("confirm prompt returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if !strings.Contains(out.String(), "./gopresence.db") {
				t.Fatalf("expected prompt naming the file, got %q", out.String())
			}
		})
	}
}

func TestRemoveSnapshotFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gopresence.db")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write temp db file: %v", err)
	}
	if err := removeSnapshotFile(path); err != nil {
		t.Fatalf("remove snapshot file: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be deleted")
	}

	if err := removeSnapshotFile(t.TempDir()); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
	if err := removeSnapshotFile(path); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestPrintSnapshotStatus(t *testing.T) {
	t.Parallel()

	store := seedMatrixStore(t)
	if _, err := store.RecordImport(context.Background(), "attendance", "punches.csv", 3); err != nil {
		t.Fatalf("record import: %v", err)
	}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	if err := printSnapshotStatus(cmd, store); err != nil {
		t.Fatalf("print status: %v", err)
	}

	text := out.String()
	for _, want := range []string{"employees", "punches.csv", "directory"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in status output:\n%s", want, text)
		}
	}
}
