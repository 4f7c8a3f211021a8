package scheduler

import (
	"slices"
	"testing"
	"time"
)

func TestParseUpdateTimes(t *testing.T) {
	times, err := ParseUpdateTimes(" 18:00; 06:00;;06:00 ")
	if err != nil {
		t.Fatalf("ParseUpdateTimes failed: %v", err)
	}
	expected := []ClockTime{{Hour: 6}, {Hour: 18}}
	if !slices.Equal(times, expected) {
		t.Errorf("expected %v, got %v", expected, times)
	}
	if formatAt(times) != "06:00;18:00" {
		t.Errorf("unexpected gocron format %s", formatAt(times))
	}

	for _, invalid := range []string{"", ";", "6pm", "25:00", "06:00;noon"} {
		if _, err := ParseUpdateTimes(invalid); err == nil {
			t.Errorf("ParseUpdateTimes(%q) expected an error", invalid)
		}
	}
}

func TestNextRun(t *testing.T) {
	times := []ClockTime{{Hour: 6}, {Hour: 18, Minute: 30}}
	loc := time.UTC

	tests := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{"before first", time.Date(2026, 10, 14, 5, 59, 0, 0, loc), time.Date(2026, 10, 14, 6, 0, 0, 0, loc)},
		{"exactly at first", time.Date(2026, 10, 14, 6, 0, 0, 0, loc), time.Date(2026, 10, 14, 18, 30, 0, 0, loc)},
		{"between", time.Date(2026, 10, 14, 12, 0, 0, 0, loc), time.Date(2026, 10, 14, 18, 30, 0, 0, loc)},
		{"after last", time.Date(2026, 10, 14, 20, 0, 0, 0, loc), time.Date(2026, 10, 15, 6, 0, 0, 0, loc)},
		{"month rollover", time.Date(2026, 10, 31, 23, 0, 0, 0, loc), time.Date(2026, 11, 1, 6, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextRun(tt.now, times); !got.Equal(tt.expected) {
				t.Errorf("NextRun(%s) = %s, expected %s", tt.now, got, tt.expected)
			}
		})
	}
}

func TestNextRunDefaults(t *testing.T) {
	now := time.Date(2026, 10, 14, 7, 0, 0, 0, time.UTC)
	if got := NextRun(now, nil); !got.Equal(time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("expected the default 18:00 run, got %s", got)
	}
}
