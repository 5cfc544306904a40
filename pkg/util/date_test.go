package util

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	want := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"rfc3339", "2025-03-14T09:30:00Z", true},
		{"unix", "1741944600", true},
		{"empty", "", false},
		{"garbage", "yesterday", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTime(tc.in)
			if ok != tc.ok {
				t.Fatalf("ParseTime(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if tc.ok && !got.Equal(want) {
				t.Fatalf("ParseTime(%q) = %v, want %v", tc.in, got, want)
			}
		})
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ParseTimeDefault("", def); !got.Equal(def) {
		t.Fatalf("expected default, got %v", got)
	}
	if got := ParseTimeDefault("2025-03-14T09:30:00Z", def); got.Equal(def) {
		t.Fatalf("valid input should not return default")
	}
}

func TestClampWindow(t *testing.T) {
	to := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	from, gotTo := ClampWindow(time.Time{}, to, time.Hour, 0)
	if gotTo != to || from != to.Add(-time.Hour) {
		t.Fatalf("fallback window wrong: %v .. %v", from, gotTo)
	}

	from, gotTo = ClampWindow(to, to.Add(-time.Hour), time.Hour, 0)
	if !from.Before(gotTo) {
		t.Fatalf("inverted window not swapped: %v .. %v", from, gotTo)
	}

	from, gotTo = ClampWindow(to.Add(-48*time.Hour), to, time.Hour, 24*time.Hour)
	if gotTo.Sub(from) != 24*time.Hour {
		t.Fatalf("window not clamped: %v", gotTo.Sub(from))
	}
}
