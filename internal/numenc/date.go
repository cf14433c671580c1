package numenc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultDateBits holds every value up to 9999-12-31 AD (139991231 < 2^28).
const DefaultDateBits = 28

// eraBase separates BC and AD years: (eraBase - year) for BC, (eraBase +
// year) for AD. BC years therefore run down to year 3999 BC.
const eraBase = 4000

// CalendarDate is a proleptic Gregorian date with an explicit era.
// Year is always positive; BC marks years before 1 AD (there is no year 0).
type CalendarDate struct {
	Year  int
	Month int
	Day   int
	BC    bool
}

func (d CalendarDate) String() string {
	s := fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	if d.BC {
		return "-" + s
	}
	return s
}

// Value maps the date to (4000 ± year)·10000 + month·100 + day, an integer
// whose order is chronological order.
func (d CalendarDate) Value() uint64 {
	era := eraBase + d.Year
	if d.BC {
		era = eraBase - d.Year
	}
	return uint64(era)*10000 + uint64(d.Month)*100 + uint64(d.Day)
}

// ParseDate reads YYYY-MM-DD, YYYYMMDD, or either with a leading '-' for
// BC. A trailing time component ("T..." or " ...") is ignored, so
// timestamps encode as their date.
func ParseDate(s string) (CalendarDate, error) {
	raw := strings.TrimSpace(s)
	var d CalendarDate
	if strings.HasPrefix(raw, "-") {
		d.BC = true
		raw = raw[1:]
	}
	if i := strings.IndexAny(raw, "T "); i >= 0 {
		raw = raw[:i]
	}

	var ys, ms, ds string
	switch {
	case len(raw) == 10 && raw[4] == '-' && raw[7] == '-':
		ys, ms, ds = raw[:4], raw[5:7], raw[8:]
	case len(raw) == 8:
		ys, ms, ds = raw[:4], raw[4:6], raw[6:]
	default:
		return CalendarDate{}, &DomainError{Value: s, Reason: "expected YYYY-MM-DD"}
	}

	var err error
	if d.Year, err = atoiDigits(ys); err != nil {
		return CalendarDate{}, &DomainError{Value: s, Reason: "bad year"}
	}
	if d.Month, err = atoiDigits(ms); err != nil {
		return CalendarDate{}, &DomainError{Value: s, Reason: "bad month"}
	}
	if d.Day, err = atoiDigits(ds); err != nil {
		return CalendarDate{}, &DomainError{Value: s, Reason: "bad day"}
	}
	if err := d.validate(); err != nil {
		return CalendarDate{}, &DomainError{Value: s, Reason: err.Error()}
	}
	return d, nil
}

// DateFromValue reverses Value.
func DateFromValue(v uint64) (CalendarDate, error) {
	era := int(v / 10000)
	rest := int(v % 10000)
	d := CalendarDate{Month: rest / 100, Day: rest % 100}
	switch {
	case era > eraBase:
		d.Year = era - eraBase
	case era < eraBase:
		d.Year = eraBase - era
		d.BC = true
	default:
		return CalendarDate{}, &DomainError{Value: strconv.FormatUint(v, 10), Reason: "year 0 does not exist"}
	}
	if err := d.validate(); err != nil {
		return CalendarDate{}, &DomainError{Value: strconv.FormatUint(v, 10), Reason: err.Error()}
	}
	return d, nil
}

func (d CalendarDate) validate() error {
	if d.Year < 1 {
		return fmt.Errorf("year must be >= 1")
	}
	if d.BC && d.Year >= eraBase {
		return fmt.Errorf("BC years must be < %d", eraBase)
	}
	if d.Year > 9999 {
		return fmt.Errorf("year must be <= 9999")
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("month %d out of range", d.Month)
	}
	// astronomical numbering: 1 BC is year 0, 2 BC is year -1
	year := d.Year
	if d.BC {
		year = 1 - d.Year
	}
	t := time.Date(year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	if d.Day < 1 || t.Day() != d.Day || int(t.Month()) != d.Month {
		return fmt.Errorf("day %d out of range for month %d", d.Day, d.Month)
	}
	return nil
}

func atoiDigits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("not digits: %q", s)
		}
	}
	return strconv.Atoi(s)
}
