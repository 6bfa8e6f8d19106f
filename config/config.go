package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gopresence/holiday"
	"gopresence/internal/timeutil"
	"gopresence/source"
	"gopresence/workpool"
)

const (
	EnvPrefix = "GOPRESENCE"

	KeyUpstreamURL           = "upstream.url"
	KeyUpstreamToken         = "upstream.token"
	KeyUpstreamConcurrency   = "upstream.concurrency"
	KeyUpstreamTimeout       = "upstream.timeout"
	KeyDatabasePath          = "database.path"
	KeyAttendanceNotMarked   = "attendance.not_marked"
	KeyLeaveApprovedStatuses = "leave.approved_statuses"
	KeyHolidaysFile          = "holidays.file"
	KeyHolidayEntries        = "holidays.entries"
	KeyScheduleGroups        = "schedule.groups"
	KeyViews                 = "views"

	DefaultView = "full"
)

var ErrNoFallbackGroup = errors.New("schedule.groups requires exactly one fallback group")

type Config struct {
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Leave      LeaveConfig      `mapstructure:"leave"`
	Holidays   HolidaysConfig   `mapstructure:"holidays"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Views      []View           `mapstructure:"views" validate:"dive"`
}

type UpstreamConfig struct {
	URL         string        `mapstructure:"url" validate:"omitempty,url"`
	Token       string        `mapstructure:"token"`
	Concurrency int           `mapstructure:"concurrency" validate:"gte=1,lte=32"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type AttendanceConfig struct {
	NotMarked []string `mapstructure:"not_marked"`
}

type LeaveConfig struct {
	ApprovedStatuses []string `mapstructure:"approved_statuses"`
}

type HolidaysConfig struct {
	File    string          `mapstructure:"file"`
	Entries []holiday.Entry `mapstructure:"entries" validate:"dive"`
}

type ScheduleConfig struct {
	Groups []Group `mapstructure:"groups" validate:"required,min=1,dive"`
}

type Group struct {
	Name      string   `mapstructure:"name" validate:"required"`
	Entry     string   `mapstructure:"entry" validate:"required"`
	Tolerance int      `mapstructure:"tolerance" validate:"gte=0"`
	Members   []string `mapstructure:"members"`
	Fallback  bool     `mapstructure:"fallback"`
}

type View struct {
	Name    string   `mapstructure:"name" validate:"required"`
	Sources []string `mapstructure:"sources" validate:"required,min=1"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyUpstreamURL, "")
	v.SetDefault(KeyUpstreamToken, "")
	v.SetDefault(KeyUpstreamConcurrency, workpool.DefaultLimit)
	v.SetDefault(KeyUpstreamTimeout, 30*time.Second)
	v.SetDefault(KeyDatabasePath, "./gopresence.db")
	v.SetDefault(KeyAttendanceNotMarked, source.DefaultNotMarked)
	v.SetDefault(KeyLeaveApprovedStatuses, source.DefaultApprovedStatuses)
	v.SetDefault(KeyHolidaysFile, "")
	v.SetDefault(KeyHolidayEntries, []map[string]any{})
	v.SetDefault(KeyScheduleGroups, []map[string]any{
		{"name": "default", "entry": "09:00", "tolerance": 0, "fallback": true},
	})
	v.SetDefault(KeyViews, []map[string]any{})
}

// BindEnv makes every key readable from GOPRESENCE_* variables, for example
// GOPRESENCE_UPSTREAM_TOKEN for upstream.token.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding the process environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	return nil
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# gopresence configuration
upstream:
  url: "https://hr.example.com/api"
  # token is usually provided as GOPRESENCE_UPSTREAM_TOKEN
  token: ""
  concurrency: 3
  timeout: 30s

database:
  path: "./gopresence.db"

attendance:
  not_marked: ["NO MARCADO", "NOT MARKED", "--:--"]

leave:
  approved_statuses: ["approved", "aprobado", "aprobada"]

holidays:
  file: ""
  entries:
    - date: "01-01"
      name: "New Year"

schedule:
  groups:
    - name: early
      entry: "06:00"
      tolerance: 10
      members: []
    - name: default
      entry: "09:00"
      tolerance: 0
      fallback: true

views:
  - name: full
    sources: [vacation, medical_leave, home_office, attendance, holiday]
  - name: attendance
    sources: [attendance, holiday]
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateGroups(cfg.Schedule.Groups); err != nil {
		return nil, err
	}
	if err := validateViews(cfg.Views); err != nil {
		return nil, err
	}
	if _, err := holiday.NewCalendar(cfg.Holidays.Entries); err != nil {
		return nil, fmt.Errorf("validation failed: holidays.entries: %w", err)
	}

	return &cfg, nil
}

func validateGroups(groups []Group) error {
	fallbacks := 0
	seen := make(map[string]struct{}, len(groups))
	for i, group := range groups {
		key := strings.ToLower(strings.TrimSpace(group.Name))
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate schedule group name %q", group.Name)
		}
		seen[key] = struct{}{}

		if _, err := timeutil.ParseClock(group.Entry); err != nil {
			return fmt.Errorf("validation failed: schedule.groups[%d].entry: %w", i, err)
		}
		if group.Fallback {
			fallbacks++
		}
	}
	if fallbacks != 1 {
		return fmt.Errorf("validation failed: %w (found %d)", ErrNoFallbackGroup, fallbacks)
	}
	return nil
}

func validateViews(views []View) error {
	seen := make(map[string]struct{}, len(views))
	for i, view := range views {
		key := strings.ToLower(strings.TrimSpace(view.Name))
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate view name %q", view.Name)
		}
		seen[key] = struct{}{}
		if _, err := source.ParseSet(view.Sources); err != nil {
			return fmt.Errorf("validation failed: views[%d]: %w", i, err)
		}
	}
	return nil
}
