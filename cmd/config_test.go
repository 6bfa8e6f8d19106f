package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopresence/config"
)

func TestConfigCreateWritesExampleTemplate(t *testing.T) {
	t.Cleanup(func() { cfgFile = "" })

	tmpConfig := filepath.Join(t.TempDir(), "create-template.yaml")
	cfgFile = tmpConfig

	var out bytes.Buffer
	configCreateCmd.SetOut(&out)
	t.Cleanup(func() { configCreateCmd.SetOut(nil) })

	if err := configCreateCmd.RunE(configCreateCmd, nil); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}
	if !strings.Contains(out.String(), "New config file created at: "+tmpConfig) {
		t.Fatalf("unexpected output: %q", out.String())
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	if _, err := config.ValidateYAMLContent(content); err != nil {
		t.Fatalf("expected created template to validate: %v", err)
	}

	out.Reset()
	if err := configCreateCmd.RunE(configCreateCmd, nil); err != nil {
		t.Fatalf("unexpected error on second create: %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Fatalf("expected existing file notice, got %q", out.String())
	}
}

func TestPrintConfigHidesToken(t *testing.T) {
	t.Parallel()

	cfg, err := config.ValidateYAMLContent([]byte(config.ExampleYAML()))
	if err != nil {
		t.Fatalf("validate example: %v", err)
	}
	cfg.Upstream.Token = "secret-token"

	var out bytes.Buffer
	printConfig(&out, cfg)

	text := out.String()
	if strings.Contains(text, "secret-token") {
		t.Fatalf("token must not be printed:\n%s", text)
	}
	for _, want := range []string{
		"upstream.token: (set)",
		"schedule.groups[1]: default entry=09:00 tolerance=0 members=0 (fallback)",
		"views[1]: attendance [attendance, holiday]",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	for _, development := range []bool{false, true} {
		built, err := newLogger(development)
		if err != nil {
			t.Fatalf("build logger (development=%v): %v", development, err)
		}
		if built == nil {
			t.Fatalf("expected logger")
		}
	}
}
