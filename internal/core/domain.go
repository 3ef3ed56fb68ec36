package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// Date is a calendar day with no time-of-day semantics.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID       string
		Concept  string
		Amount   Money
		Currency Currency
		Category Category
		Date     Date
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyConcept    = errors.New("empty concept")
	ErrConceptTooLong  = errors.New("concept too long (max 200 characters)")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrMissingDate     = errors.New("missing date")
	ErrInvalidMonthKey = errors.New("invalid month key")
)

// NewDate builds a Date from year, month and day. A day beyond the end of
// the target month is clamped to the last valid day (Jan 31 -> Feb 28/29),
// never rolled into the following month.
func NewDate(year, month, day int) Date {
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, ErrMissingDate
	}
	return Date{Time: t}, nil
}

func daysInMonth(year, month int) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the calendar month, 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// MonthKey returns the "YYYY-MM" key of the date's calendar month.
func (d Date) MonthKey() string {
	return FormatMonthKey(d.Year(), d.Month())
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// FormatMonthKey builds the "YYYY-MM" key for a year and 1-based month.
func FormatMonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthKey splits a "YYYY-MM" key into year and 1-based month.
func ParseMonthKey(key string) (year, month int, err error) {
	t, perr := time.Parse("2006-01", key)
	if perr != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonthKey, key)
	}
	return t.Year(), int(t.Month()), nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Concept)) == 0 {
		return ErrEmptyConcept
	}
	if len(e.Concept) > 200 {
		return ErrConceptTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Currency.Valid() {
		return ErrInvalidCurrency
	}
	return nil
}
