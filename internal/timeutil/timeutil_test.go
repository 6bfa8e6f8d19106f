package timeutil

import (
	"testing"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Clock
		wantErr bool
	}{
		{name: "padded", input: "06:11", want: Clock{Hour: 6, Minute: 11}},
		{name: "single digit hour", input: "8:09", want: Clock{Hour: 8, Minute: 9}},
		{name: "with seconds", input: "09:05:59", want: Clock{Hour: 9, Minute: 5}},
		{name: "surrounding spaces", input: "  17:30 ", want: Clock{Hour: 17, Minute: 30}},
		{name: "pm", input: "01:15 PM", want: Clock{Hour: 13, Minute: 15}},
		{name: "noon pm", input: "12:00 pm", want: Clock{Hour: 12, Minute: 0}},
		{name: "midnight am", input: "12:05 AM", want: Clock{Hour: 0, Minute: 5}},
		{name: "empty", input: "", wantErr: true},
		{name: "sentinel", input: "NO MARCADO", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "one digit minute", input: "10:5", wantErr: true},
		{name: "bad seconds", input: "10:05:xx", wantErr: true},
		{name: "seconds out of range", input: "09:05:99", wantErr: true},
		{name: "signed minute", input: "10:+5", wantErr: true},
		{name: "signed hour", input: "-1:05", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseClock(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("unexpected clock for %q: want %v, got %v", tc.input, tc.want, got)
			}
		})
	}
}

func TestClockAddAndString(t *testing.T) {
	t.Parallel()

	got := NewClock(6, 55).Add(10)
	if got.String() != "07:05" {
		t.Fatalf("expected 07:05, got %s", got)
	}
	if got.Minutes() != 425 {
		t.Fatalf("expected 425, got %d", got.Minutes())
	}
}

func TestParseDigits(t *testing.T) {
	t.Parallel()

	if got, err := ParseDigits("0042"); err != nil || got != 42 {
		t.Fatalf("expected 42, got %d, err %v", got, err)
	}
	for _, input := range []string{"", "+1", "-1", " 1", "1a"} {
		if _, err := ParseDigits(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
