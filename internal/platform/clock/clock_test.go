package clock

import (
	"testing"
	"time"
)

func TestOffsetDate(t *testing.T) {
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		off  *TimeOffset
		want time.Time
	}{
		{"nil", nil, base},
		{"now", &TimeOffset{Type: OffsetNow}, base},
		{"hours", &TimeOffset{Type: OffsetHoursLater, Amount: 1}, base.Add(time.Hour)},
		{"minutes", &TimeOffset{Type: OffsetMinutesLater, Amount: 30}, base.Add(30 * time.Minute)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := OffsetDate(tc.off, base)
			if err != nil {
				t.Fatalf("OffsetDate: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got=%s want=%s", got, tc.want)
			}
		})
	}
	if !base.Equal(time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("base mutated")
	}
}

func TestOffsetDateUnknownType(t *testing.T) {
	if _, err := OffsetDate(&TimeOffset{Type: "days-later", Amount: 1}, time.Now()); err == nil {
		t.Fatalf("expected error for unknown offset type")
	}
}

func TestFromPGTimeString(t *testing.T) {
	syd, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	day := time.Date(2024, 5, 6, 23, 59, 0, 0, syd)

	got, err := FromPGTimeString("14:30:15.250", day)
	if err != nil {
		t.Fatalf("FromPGTimeString: %v", err)
	}
	want := time.Date(2024, 5, 6, 14, 30, 15, 250*int(time.Millisecond), syd)
	if !got.Equal(want) {
		t.Fatalf("got=%s want=%s", got, want)
	}

	got, err = FromPGTimeString("09:05:00", day)
	if err != nil {
		t.Fatalf("FromPGTimeString without fraction: %v", err)
	}
	if got.Hour() != 9 || got.Minute() != 5 || got.Nanosecond() != 0 {
		t.Fatalf("unexpected time %s", got)
	}

	for _, bad := range []string{"", "9:5", "25:00:00", "10:00:00.", "abc"} {
		if _, err := FromPGTimeString(bad, day); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFormatPGTimeRoundTrip(t *testing.T) {
	at := time.Date(2024, 1, 2, 8, 7, 6, 5*int(time.Millisecond), time.UTC)
	s := FormatPGTime(at)
	if s != "08:07:06.005" {
		t.Fatalf("FormatPGTime: %s", s)
	}
	back, err := FromPGTimeString(s, at)
	if err != nil {
		t.Fatalf("FromPGTimeString: %v", err)
	}
	if !back.Equal(at) {
		t.Fatalf("round trip: got=%s want=%s", back, at)
	}
}

func TestIntervalOf(t *testing.T) {
	iv := IntervalOf(2*time.Hour + 15*time.Minute + 3*time.Second)
	if iv.Hours != 2 || iv.Minutes != 15 || iv.Seconds != 3 {
		t.Fatalf("unexpected interval %+v", iv)
	}
	if iv.Duration() != 2*time.Hour+15*time.Minute+3*time.Second {
		t.Fatalf("duration mismatch")
	}
	if !IntervalOf(-time.Minute).IsZero() {
		t.Fatalf("negative durations clamp to zero")
	}
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if got := Add(start, Interval{Hours: 1, Minutes: 30}); !got.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("Add: %s", got)
	}
}

func TestISOAndEqual(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 678_900_000, time.UTC)
	s := FormatISO(at)
	if s != "2024-01-02T03:04:05.678Z" {
		t.Fatalf("FormatISO: %s", s)
	}
	back, err := ParseISO(s)
	if err != nil {
		t.Fatalf("ParseISO: %v", err)
	}
	if !Equal(back, at) {
		t.Fatalf("millisecond equality should hold: %s vs %s", back, at)
	}
	if Equal(back, at.Add(time.Millisecond)) {
		t.Fatalf("instants a millisecond apart must differ")
	}
	if _, err := ParseISO("yesterday"); err == nil {
		t.Fatalf("expected parse error")
	}
}
