package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopresence/calendar"
	"gopresence/internal/timeutil"
	"gopresence/source"
)

func TestValidateYAMLContent_AcceptsExample(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Upstream.Concurrency != 3 {
		t.Fatalf("unexpected concurrency: %d", cfg.Upstream.Concurrency)
	}
	if cfg.Upstream.Timeout.Seconds() != 30 {
		t.Fatalf("unexpected timeout: %s", cfg.Upstream.Timeout)
	}
	if len(cfg.Schedule.Groups) != 2 {
		t.Fatalf("expected 2 schedule groups, got %d", len(cfg.Schedule.Groups))
	}
}

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("database:\n  path: \"./other.db\"\n"))
	if err != nil {
		t.Fatalf("expected minimal config to validate: %v", err)
	}
	if cfg.Database.Path != "./other.db" {
		t.Fatalf("unexpected database path: %q", cfg.Database.Path)
	}
	if cfg.Upstream.Concurrency != 3 {
		t.Fatalf("expected default concurrency 3, got %d", cfg.Upstream.Concurrency)
	}
	if len(cfg.Attendance.NotMarked) == 0 || len(cfg.Leave.ApprovedStatuses) == 0 {
		t.Fatalf("expected default sentinels and statuses, got %+v", cfg)
	}

	registry, err := cfg.Registry()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	profile := registry.Resolve("ANYONE")
	if profile.Entry != timeutil.NewClock(9, 0) {
		t.Fatalf("expected default fallback at 09:00, got %s", profile.Entry)
	}
}

func TestValidateYAMLContent_RejectsMissingFallback(t *testing.T) {
	t.Parallel()

	content := []byte(`schedule:
  groups:
    - name: early
      entry: "06:00"
      tolerance: 10
`)

	_, err := ValidateYAMLContent(content)
	if !errors.Is(err, ErrNoFallbackGroup) {
		t.Fatalf("expected ErrNoFallbackGroup, got %v", err)
	}
}

func TestValidateYAMLContent_RejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bad entry clock",
			content: "schedule:\n  groups:\n    - name: default\n      entry: \"9am\"\n      fallback: true\n",
			want:    "schedule.groups[0].entry",
		},
		{
			name:    "duplicate group",
			content: "schedule:\n  groups:\n    - name: a\n      entry: \"09:00\"\n      fallback: true\n    - name: A\n      entry: \"08:00\"\n",
			want:    "duplicate schedule group",
		},
		{
			name:    "negative tolerance",
			content: "schedule:\n  groups:\n    - name: a\n      entry: \"09:00\"\n      tolerance: -1\n      fallback: true\n",
			want:    "Tolerance",
		},
		{
			name:    "zero concurrency",
			content: "upstream:\n  concurrency: 0\n",
			want:    "Concurrency",
		},
		{
			name:    "bad upstream url",
			content: "upstream:\n  url: \"not a url\"\n",
			want:    "URL",
		},
		{
			name:    "unknown view source",
			content: "views:\n  - name: odd\n    sources: [attendance, payroll]\n",
			want:    "views[0]",
		},
		{
			name:    "bad holiday",
			content: "holidays:\n  entries:\n    - date: \"13-45\"\n      name: Broken\n",
			want:    "holidays.entries",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateYAMLContent([]byte(tc.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestConfig_Registry(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(`schedule:
  groups:
    - name: early
      entry: "06:00"
      tolerance: 10
      members: ["  james   smith "]
    - name: default
      entry: "09:00"
      fallback: true
`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	registry, err := cfg.Registry()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	early := registry.Resolve("JAMES SMITH")
	if early.Entry != timeutil.NewClock(6, 0) || early.ToleranceMinutes != 10 {
		t.Fatalf("unexpected profile for member: %+v", early)
	}
	other := registry.Resolve("MARIA LOPEZ")
	if other.Entry != timeutil.NewClock(9, 0) || other.ToleranceMinutes != 0 {
		t.Fatalf("unexpected fallback profile: %+v", other)
	}
}

func TestConfig_HolidayCalendarMergesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "holidays.json")
	if err := os.WriteFile(path, []byte(`{"year":2025,"holidays":[{"date":"2025-05-01","name":"Labour Day"}]}`), 0o600); err != nil {
		t.Fatalf("write holidays file: %v", err)
	}

	cfg, err := ValidateYAMLContent([]byte("holidays:\n  file: \"" + filepath.ToSlash(path) + "\"\n  entries:\n    - date: \"01-01\"\n      name: New Year\n"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	holidays, err := cfg.HolidayCalendar()
	if err != nil {
		t.Fatalf("build holiday calendar: %v", err)
	}
	if name, ok := holidays.Lookup(calendar.MustParseDay("2026-01-01").Key()); !ok || name != "New Year" {
		t.Fatalf("expected recurring New Year, got %q %v", name, ok)
	}
	if name, ok := holidays.Lookup("2025-05-01"); !ok || name != "Labour Day" {
		t.Fatalf("expected Labour Day from file, got %q %v", name, ok)
	}
	if _, ok := holidays.Lookup("2026-05-01"); ok {
		t.Fatalf("dated file entry must not recur")
	}
}

func TestConfig_View(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	set, err := cfg.View("attendance")
	if err != nil {
		t.Fatalf("resolve view: %v", err)
	}
	if !set.Has(source.KindAttendance) || !set.Has(source.KindHoliday) || set.Has(source.KindVacation) {
		t.Fatalf("unexpected attendance view: %v", set.Names())
	}

	all, err := cfg.View("")
	if err != nil {
		t.Fatalf("resolve default view: %v", err)
	}
	for _, kind := range source.Kinds() {
		if !all.Has(kind) {
			t.Fatalf("default view misses %s", kind)
		}
	}

	if _, err := cfg.View("payroll"); err == nil || !strings.Contains(err.Error(), "unknown view") {
		t.Fatalf("expected unknown view error, got %v", err)
	}
}

func TestLoadDotEnv_IgnoresMissingFile(t *testing.T) {
	t.Parallel()

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored: %v", err)
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GOPRESENCE_TEST_TOKEN=from-file\nGOPRESENCE_TEST_OTHER=loaded\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("GOPRESENCE_TEST_TOKEN", "from-env")
	t.Setenv("GOPRESENCE_TEST_OTHER", "")
	os.Unsetenv("GOPRESENCE_TEST_OTHER")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("GOPRESENCE_TEST_TOKEN"); got != "from-env" {
		t.Fatalf("expected process env to win, got %q", got)
	}
	if got := os.Getenv("GOPRESENCE_TEST_OTHER"); got != "loaded" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
