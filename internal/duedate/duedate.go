// Package duedate turns stored due date strings into the display form used
// on task cards: "MM/DD/YYYY - hh:mm AM/PM".
package duedate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// NoDueDate is shown when a task has no due date.
	NoDueDate = "No Due Date"

	// InvalidDate is shown when a stored due date cannot be parsed.
	InvalidDate = "Invalid Date"

	// Layout is the display layout for due dates.
	Layout = "01/02/2006 - 03:04 PM"

	// StorageLayout is the canonical form due dates are stored in.
	StorageLayout = "2006-01-02T15:04"
)

// ErrInvalidDate is returned by Parse for input that is not a recognised date.
var ErrInvalidDate = errors.New("invalid date")

// Wall-clock layouts, interpreted in the formatter's location.
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Layouts carrying their own offset.
var absoluteLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// Formatter formats due dates in a fixed location.
type Formatter struct {
	loc *time.Location
}

// New returns a Formatter for loc. A nil loc means time.Local.
func New(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{loc: loc}
}

// Location returns the location dates are interpreted and shown in.
func (f *Formatter) Location() *time.Location {
	return f.loc
}

// Format returns the display string for a stored due date.
// Empty input yields NoDueDate and unparseable input yields InvalidDate.
func (f *Formatter) Format(input string) string {
	if strings.TrimSpace(input) == "" {
		return NoDueDate
	}
	t, err := f.Parse(input)
	if err != nil {
		return InvalidDate
	}
	return f.FormatTime(t)
}

// FormatTime formats t in the formatter's location.
func (f *Formatter) FormatTime(t time.Time) string {
	return t.In(f.loc).Format(Layout)
}

// Parse parses a due date string. Date-times without an offset and bare
// dates are read as wall-clock time in the formatter's location.
func (f *Formatter) Parse(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(f.loc), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
}

// Normalize converts input into StorageLayout. Empty input stays empty.
func (f *Formatter) Normalize(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}
	t, err := f.Parse(input)
	if err != nil {
		return "", err
	}
	return t.Format(StorageLayout), nil
}
