package model

import "fmt"

// Date is a calendar date ordered as a (year, month, day) triple. Validation
// covers field ranges only; a day is never checked against its month's
// length, so stored data may contain dates like February 31st.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses an ISO-style YYYY-MM-DD string. It accepts exactly ten
// bytes with all-digit fields, year 1900-9999, month 1-12, day 1-31.
func ParseDate(s string) (Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", s)
	}
	for _, i := range []int{0, 1, 2, 3, 5, 6, 8, 9} {
		if s[i] < '0' || s[i] > '9' {
			return Date{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", s)
		}
	}
	d := Date{
		Year:  atoi(s[0:4]),
		Month: atoi(s[5:7]),
		Day:   atoi(s[8:10]),
	}
	if d.Year < 1900 || d.Year > 9999 {
		return Date{}, fmt.Errorf("year %d out of range 1900-9999", d.Year)
	}
	if d.Month < 1 || d.Month > 12 {
		return Date{}, fmt.Errorf("month %d out of range 1-12", d.Month)
	}
	if d.Day < 1 || d.Day > 31 {
		return Date{}, fmt.Errorf("day %d out of range 1-31", d.Day)
	}
	return d, nil
}

// atoi converts a digit-only substring already vetted by ParseDate.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// String renders the zero-padded ISO form, so string ordering and Compare
// ordering agree.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0, or 1 as d sorts before, equal to, or after o.
func (d Date) Compare(o Date) int {
	if c := cmpInt(d.Year, o.Year); c != 0 {
		return c
	}
	if c := cmpInt(d.Month, o.Month); c != 0 {
		return c
	}
	return cmpInt(d.Day, o.Day)
}

// Before reports whether d sorts strictly before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d sorts strictly after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// IsZero reports whether d is the zero Date, which no parsed date can be.
func (d Date) IsZero() bool { return d == Date{} }

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
