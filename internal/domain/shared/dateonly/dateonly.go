package dateonly

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDate  = errors.New("dateonly: invalid calendar date")
	ErrInvalidRange = errors.New("dateonly: end must not be before start")
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Date is a calendar date without time-of-day or zone. The zero value is
// no date at all and reports IsZero.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func New(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if !d.valid() {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return d, nil
}

// FromTime truncates t to its calendar date in UTC.
func FromTime(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

func Parse(value string) (Date, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return FromTime(t), nil
}

// MustParse panics on malformed input. Intended for fixtures and tests.
func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) valid() bool {
	if d.IsZero() {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysIn(d.Year, d.Month) && d.Month >= time.January && d.Month <= time.December
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(Layout)
}

func (d Date) Equal(other Date) bool {
	return d == other
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

// AddDays walks the calendar, normalizing across month and year boundaries.
func (d Date) AddDays(days int) Date {
	return FromTime(d.Time().AddDate(0, 0, days))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// DaysIn reports the day count of a month, leap years included.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Range is an inclusive calendar-date interval [Start, End]. A single-day
// range has Start == End.
type Range struct {
	Start Date
	End   Date
}

func NewRange(start, end Date) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	if r.End.Before(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether the date falls inside the range, both ends
// inclusive.
func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r Range) Overlaps(other Range) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Days returns the inclusive day count: a single-day range spans one day.
func (r Range) Days() int {
	return int(r.End.Time().Sub(r.Start.Time()).Hours()/24) + 1
}

// Each calls fn for every date of the range in order, stopping early when
// fn returns false.
func (r Range) Each(fn func(Date) bool) {
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		if !fn(d) {
			return
		}
	}
}
