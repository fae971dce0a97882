// Package clock holds the date arithmetic used by the booking flow: relative
// time offsets, Postgres-style time-of-day strings and interval math.
package clock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clock abstracts the wall clock so handlers can be driven from tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func System() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// ISOLayout is the millisecond precision timestamp written into state and
// button payloads.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatISO renders t in UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseISO accepts any RFC 3339 timestamp, with or without fractional seconds.
func ParseISO(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t.UTC(), nil
}

// Equal compares two instants at millisecond resolution, the precision the
// timestamps survive a round trip through a payload with.
func Equal(a, b time.Time) bool {
	return a.UnixMilli() == b.UnixMilli()
}

type OffsetKind string

const (
	OffsetNow          OffsetKind = "now"
	OffsetHoursLater   OffsetKind = "hours-later"
	OffsetMinutesLater OffsetKind = "minutes-later"
)

// TimeOffset is a relative start-time constraint picked by the user.
type TimeOffset struct {
	Type   OffsetKind `json:"type"`
	Amount int        `json:"amount,omitempty"`
}

func (o TimeOffset) Validate() error {
	switch o.Type {
	case OffsetNow:
		return nil
	case OffsetHoursLater, OffsetMinutesLater:
		if o.Amount < 0 {
			return fmt.Errorf("negative offset amount %d", o.Amount)
		}
		return nil
	default:
		return fmt.Errorf("unknown time offset type %q", o.Type)
	}
}

// OffsetDate applies off to t without mutating t. A nil offset means "now".
func OffsetDate(off *TimeOffset, t time.Time) (time.Time, error) {
	if off == nil {
		return t, nil
	}
	if err := off.Validate(); err != nil {
		return time.Time{}, err
	}
	switch off.Type {
	case OffsetHoursLater:
		return t.Add(time.Duration(off.Amount) * time.Hour), nil
	case OffsetMinutesLater:
		return t.Add(time.Duration(off.Amount) * time.Minute), nil
	default:
		return t, nil
	}
}

// Interval mirrors the JSON shape Postgres intervals are serialised to.
type Interval struct {
	Hours        int `json:"hours,omitempty"`
	Minutes      int `json:"minutes,omitempty"`
	Seconds      int `json:"seconds,omitempty"`
	Milliseconds int `json:"milliseconds,omitempty"`
}

func IntervalOf(d time.Duration) Interval {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return Interval{
		Hours:        int(h),
		Minutes:      int(m),
		Seconds:      int(s),
		Milliseconds: int(d / time.Millisecond),
	}
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i.Hours)*time.Hour +
		time.Duration(i.Minutes)*time.Minute +
		time.Duration(i.Seconds)*time.Second +
		time.Duration(i.Milliseconds)*time.Millisecond
}

func (i Interval) IsZero() bool { return i.Duration() == 0 }

// Add returns t shifted by the interval.
func Add(t time.Time, i Interval) time.Time {
	return t.Add(i.Duration())
}

var pgTimeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})(?:\.(\d{1,9}))?$`)

// FromPGTimeString places a "HH:MM:SS[.fraction]" time of day on the
// calendar date of day, in day's location.
func FromPGTimeString(s string, day time.Time) (time.Time, error) {
	m := pgTimeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid pg time string %q", s)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	if hours > 23 || minutes > 59 || seconds > 59 {
		return time.Time{}, fmt.Errorf("pg time string out of range %q", s)
	}
	nanos := 0
	if frac := m[4]; frac != "" {
		frac = (frac + "000000000")[:9]
		nanos, _ = strconv.Atoi(frac)
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, hours, minutes, seconds, nanos, day.Location()), nil
}

// FormatPGTime renders the time of day of t the way Postgres prints a time
// column, with millisecond precision.
func FormatPGTime(t time.Time) string {
	return t.Format("15:04:05.000")
}
