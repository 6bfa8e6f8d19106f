package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Day
		wantErr bool
	}{
		{name: "iso", input: "2026-01-10", want: Day{2026, time.January, 10}},
		{name: "iso with time", input: "2026-01-31T23:30:00-05:00", want: Day{2026, time.January, 31}},
		{name: "iso with space time", input: "2026-02-01 00:15", want: Day{2026, time.February, 1}},
		{name: "unpadded", input: "2026-3-7", want: Day{2026, time.March, 7}},
		{name: "slashes day first", input: "05/01/2026", want: Day{2026, time.January, 5}},
		{name: "leap day", input: "2028-02-29", want: Day{2028, time.February, 29}},
		{name: "not a leap year", input: "2026-02-29", wantErr: true},
		{name: "month 13", input: "2026-13-01", wantErr: true},
		{name: "letters", input: "2026-ab-01", wantErr: true},
		{name: "signed month", input: "2026-+1-05", wantErr: true},
		{name: "signed day", input: "+5/01/2026", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "short year", input: "26-01-01", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDay(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToday_UsesWallClockOfLocation(t *testing.T) {
	t.Parallel()

	lima := time.FixedZone("PET", -5*60*60)
	// 23:30 in Lima is already the next day in UTC.
	now := time.Date(2026, time.January, 31, 23, 30, 0, 0, lima)

	assert.Equal(t, Day{2026, time.January, 31}, Today(now))
}

func TestDay_KeyWeekendAndArithmetic(t *testing.T) {
	t.Parallel()

	saturday := MustParseDay("2026-01-10")
	assert.Equal(t, "2026-01-10", saturday.Key())
	assert.True(t, saturday.IsWeekend())
	assert.True(t, saturday.AddDays(1).IsWeekend())
	assert.False(t, saturday.AddDays(2).IsWeekend())

	assert.Equal(t, "2026-02-01", MustParseDay("2026-01-31").AddDays(1).Key())
	assert.Equal(t, "2025-12-31", MustParseDay("2026-01-01").AddDays(-1).Key())

	assert.True(t, MustParseDay("2025-12-31").Before(MustParseDay("2026-01-01")))
	assert.True(t, MustParseDay("2026-02-01").After(MustParseDay("2026-01-31")))
	assert.False(t, saturday.Before(saturday))
}

func TestMonthDays_ReturnsWholeMonthInOrder(t *testing.T) {
	t.Parallel()

	days := MonthDays(MustParseDay("2026-02-17"))
	require.Len(t, days, 28)
	assert.Equal(t, "2026-02-01", days[0].Key())
	assert.Equal(t, "2026-02-28", days[27].Key())
	for i := 1; i < len(days); i++ {
		assert.True(t, days[i-1].Before(days[i]))
	}

	assert.Len(t, MonthDays(MustParseDay("2028-02-01")), 29)
	assert.Len(t, MonthDays(MustParseDay("2026-01-31")), 31)
	assert.Len(t, MonthDays(MustParseDay("2026-04-30")), 30)
}

func TestParseMonthAndNavigation(t *testing.T) {
	t.Parallel()

	month, err := ParseMonth("2026-01")
	require.NoError(t, err)
	assert.Equal(t, Month{2026, time.January}, month)
	assert.Equal(t, "2026-02", month.Next().Key())
	assert.Equal(t, "2025-12", month.Previous().Key())
	assert.Equal(t, "2026-01-31", month.Last().Key())

	_, err = ParseMonth("2026-13")
	assert.Error(t, err)
	_, err = ParseMonth("January")
	assert.Error(t, err)
	_, err = ParseMonth("2026-+1")
	assert.Error(t, err)
}
