package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of expense dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component.
type Date time.Time

// NewDate returns the Date for the given day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date(t), nil
}

// Today returns the current day in the local time zone.
func Today() Date {
	y, m, d := time.Now().Date()
	return NewDate(y, m, d)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// String returns the date formatted as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Time(d).Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. Full RFC 3339 timestamps are
// accepted and truncated to their day.
func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		*d = Date{}
		return nil
	}

	layout := DateLayout
	if len(value) > len(DateLayout) {
		layout = time.RFC3339
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		return err
	}
	*d = NewDate(t.Year(), t.Month(), t.Day())
	return nil
}
