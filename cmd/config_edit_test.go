package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveConfigEditPath(t *testing.T) {
	t.Run("uses explicit flag first", func(t *testing.T) {
		got, err := resolveConfigEditPath("./custom.yaml", "/tmp/active.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "./custom.yaml" {
			t.Fatalf("expected explicit config path, got %q", got)
		}
	})

	t.Run("uses loaded config when flag is empty", func(t *testing.T) {
		got, err := resolveConfigEditPath(" ", "/tmp/active.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "/tmp/active.yaml" {
			t.Fatalf("expected loaded config path, got %q", got)
		}
	})

	t.Run("falls back to home config path", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		got, err := resolveConfigEditPath("", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(home, ".gopresence.yaml"); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestEnsureConfigFileWithTemplateAndReport(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "nested", "gopresence.yaml")

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		t.Fatalf("create template config: %v", err)
	}
	if !created {
		t.Fatalf("expected file to be created")
	}
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("stat config file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected config file mode 0600, got %o", info.Mode().Perm())
	}

	created, err = ensureConfigFileWithTemplate(configPath)
	if err != nil {
		t.Fatalf("unexpected error on existing config file: %v", err)
	}
	if created {
		t.Fatalf("did not expect existing file to be recreated")
	}

	var out bytes.Buffer
	if err := reportConfigFile(&out, configPath); err != nil {
		t.Fatalf("report config: %v", err)
	}
	if !strings.Contains(out.String(), `2 schedule groups, fallback "default", 2 views, 1 holidays`) {
		t.Fatalf("unexpected report: %q", out.String())
	}
}

func TestReportConfigFileRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	content := "schedule:\n  groups:\n    - name: early\n      entry: \"06:00\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	err := reportConfigFile(&bytes.Buffer{}, configPath)
	if err == nil || !strings.Contains(err.Error(), "fallback") {
		t.Fatalf("expected fallback validation error, got %v", err)
	}
}

func TestEditorCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		env      map[string]string
		wantPath string
		wantArgs []string
	}{
		{name: "visual wins", env: map[string]string{"VISUAL": "code --wait", "EDITOR": "nano"}, wantPath: "code", wantArgs: []string{"code", "--wait", "/tmp/cfg.yaml"}},
		{name: "editor fallback", env: map[string]string{"EDITOR": "nano"}, wantPath: "nano", wantArgs: []string{"nano", "/tmp/cfg.yaml"}},
		{name: "blank values use vi", env: map[string]string{"VISUAL": "  "}, wantPath: "vi", wantArgs: []string{"vi", "/tmp/cfg.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd, err := editorCommand(func(key string) string { return tt.env[key] }, "/tmp/cfg.yaml")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filepath.Base(cmd.Path) != tt.wantPath && cmd.Path != tt.wantPath {
				t.Fatalf("expected command %q, got %q", tt.wantPath, cmd.Path)
			}
			if strings.Join(cmd.Args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Fatalf("unexpected args: %#v", cmd.Args)
			}
		})
	}
}
