package timeutil_test

import (
	"testing"
	"time"

	"github.com/pixelforge-digital/team-portal/backend/internal/timeutil"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{
			// a Monday maps to itself, not the prior week
			name: "monday",
			ref:  time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC),
			want: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "wednesday",
			ref:  time.Date(2025, 1, 8, 23, 59, 0, 0, time.UTC),
			want: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			// a Sunday belongs to the week it ends
			name: "sunday",
			ref:  time.Date(2025, 1, 12, 0, 0, 1, 0, time.UTC),
			want: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		got := timeutil.WeekStart(tt.ref)
		if !got.Equal(tt.want) {
			t.Errorf("%s: WeekStart(%v) = %v, want %v", tt.name, tt.ref, got, tt.want)
		}
	}
}

func TestMinutesBetween(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		elapsed time.Duration
		want    int32
	}{
		{0, 0},
		{29 * time.Second, 0},
		{30 * time.Second, 1},
		{90 * time.Second, 2}, // 1.5 rounds up
		{60 * time.Minute, 60},
		{8*time.Hour + 29*time.Second, 480},
	}

	for _, tt := range tests {
		got := timeutil.MinutesBetween(start, start.Add(tt.elapsed))
		if got != tt.want {
			t.Errorf("MinutesBetween(+%v) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
}

func TestHoursFromMinutes(t *testing.T) {
	tests := []struct {
		minutes int32
		want    float64
	}{
		{0, 0},
		{30, 0.5},
		{60, 1},
		{90, 1.5},
		{100, 1.7},
		{488, 8.1},
	}

	for _, tt := range tests {
		got := timeutil.HoursFromMinutes(tt.minutes)
		if got != tt.want {
			t.Errorf("HoursFromMinutes(%d) = %v, want %v", tt.minutes, got, tt.want)
		}
	}
}

func TestMonthStart(t *testing.T) {
	ref := time.Date(2025, 2, 17, 18, 4, 5, 0, time.UTC)
	want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := timeutil.MonthStart(ref); !got.Equal(want) {
		t.Errorf("MonthStart(%v) = %v, want %v", ref, got, want)
	}
}

func TestSameDate(t *testing.T) {
	a := time.Date(2025, 5, 1, 23, 58, 0, 0, time.UTC)
	b := time.Date(2025, 5, 2, 0, 2, 0, 0, time.UTC)
	if timeutil.SameDate(a, b) {
		t.Error("dates across midnight reported as equal")
	}
	if !timeutil.SameDate(a, a.Add(time.Minute)) {
		t.Error("same date reported as different")
	}
}
