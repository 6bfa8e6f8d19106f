package config

import (
	"fmt"
	"strings"

	"gopresence/holiday"
	"gopresence/internal/timeutil"
	"gopresence/schedule"
	"gopresence/source"
)

// Registry builds the schedule registry from the configured groups.
func (c Config) Registry() (*schedule.Registry, error) {
	groups := make([]schedule.Group, 0, len(c.Schedule.Groups))
	for i, group := range c.Schedule.Groups {
		entry, err := timeutil.ParseClock(group.Entry)
		if err != nil {
			return nil, fmt.Errorf("schedule.groups[%d].entry: %w", i, err)
		}
		groups = append(groups, schedule.Group{
			Name:     group.Name,
			Profile:  schedule.Profile{Entry: entry, ToleranceMinutes: group.Tolerance},
			Members:  group.Members,
			Fallback: group.Fallback,
		})
	}

	registry, err := schedule.NewRegistry(groups)
	if err != nil {
		return nil, fmt.Errorf("build schedule registry: %w", err)
	}
	return registry, nil
}

// HolidayCalendar merges the configured entries with the holidays file.
func (c Config) HolidayCalendar() (*holiday.Calendar, error) {
	entries := append([]holiday.Entry(nil), c.Holidays.Entries...)
	if path := strings.TrimSpace(c.Holidays.File); path != "" {
		fromFile, err := holiday.LoadFile(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fromFile...)
	}

	calendar, err := holiday.NewCalendar(entries)
	if err != nil {
		return nil, fmt.Errorf("build holiday calendar: %w", err)
	}
	return calendar, nil
}

// View resolves a named source selection. An empty name or the name "full"
// without a configured view selects every source.
func (c Config) View(name string) (source.Set, error) {
	name = strings.TrimSpace(name)
	for _, view := range c.Views {
		if strings.EqualFold(strings.TrimSpace(view.Name), name) {
			return source.ParseSet(view.Sources)
		}
	}
	if name == "" || strings.EqualFold(name, DefaultView) {
		return source.AllSources(), nil
	}
	return source.Set{}, fmt.Errorf("unknown view %q (configured: %s)", name, strings.Join(c.ViewNames(), ", "))
}

func (c Config) ViewNames() []string {
	names := make([]string, 0, len(c.Views))
	for _, view := range c.Views {
		names = append(names, view.Name)
	}
	return names
}

func (c Config) NormalizeOptions() source.Options {
	return source.Options{
		NotMarked:        c.Attendance.NotMarked,
		ApprovedStatuses: c.Leave.ApprovedStatuses,
	}
}
