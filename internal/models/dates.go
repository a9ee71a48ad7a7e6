package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const (
	// DateLayout is the wire format for calendar dates
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for a time of day
	TimeLayout = "15:04"
)

// DateOf returns the calendar date of t as a UTC midnight value.
// All date columns are stored this way so that range comparisons line up across drivers.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return DateOf(t), nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(d datatypes.Date) string {
	return time.Time(d).UTC().Format(DateLayout)
}

// FormatDatePtr is FormatDate for nullable columns.
func FormatDatePtr(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := FormatDate(*d)
	return &s
}

// ParseTimeOfDay parses HH:MM.
func ParseTimeOfDay(s string) (datatypes.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, err
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0), nil
}

// FormatTimeOfDay renders a time of day as HH:MM.
func FormatTimeOfDay(t *datatypes.Time) *string {
	if t == nil {
		return nil
	}
	d := time.Duration(*t)
	s := fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
	return &s
}
