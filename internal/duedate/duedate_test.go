package duedate

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var displayPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4} - \d{2}:\d{2} (AM|PM)$`)

func TestFormatAbsent(t *testing.T) {
	f := New(time.UTC)
	for _, in := range []string{"", " ", "\t\n"} {
		assert.Equal(t, NoDueDate, f.Format(in), "input %q", in)
	}
}

func TestFormat(t *testing.T) {
	eastern := time.FixedZone("EDT", -4*60*60)
	tests := []struct {
		name string
		loc  *time.Location
		in   string
		want string
	}{
		{"afternoon", time.UTC, "2025-07-04T14:00", "07/04/2025 - 02:00 PM"},
		{"afternoon in other zone", eastern, "2025-07-04T14:00", "07/04/2025 - 02:00 PM"},
		{"midnight", time.UTC, "2025-01-09T00:05", "01/09/2025 - 12:05 AM"},
		{"noon", time.UTC, "2025-12-31T12:30", "12/31/2025 - 12:30 PM"},
		{"seconds", time.UTC, "2025-07-04T09:15:42", "07/04/2025 - 09:15 AM"},
		{"fractional seconds", time.UTC, "2025-07-04T09:15:42.500", "07/04/2025 - 09:15 AM"},
		{"space separator", time.UTC, "2025-07-04 21:07", "07/04/2025 - 09:07 PM"},
		{"date only", eastern, "2025-07-04", "07/04/2025 - 12:00 AM"},
		{"utc converted to zone", eastern, "2025-07-04T14:00:00Z", "07/04/2025 - 10:00 AM"},
		{"offset converted to zone", time.UTC, "2025-07-04T14:00:00+02:00", "07/04/2025 - 12:00 PM"},
		{"offset without seconds", time.UTC, "2025-07-04T23:30Z", "07/04/2025 - 11:30 PM"},
		{"crosses day boundary", eastern, "2025-07-05T02:00:00Z", "07/04/2025 - 10:00 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.loc).Format(tt.in)
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatMatchesDisplayPattern(t *testing.T) {
	f := New(time.FixedZone("X", 5*60*60+30*60))
	start := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 96; i++ {
		in := start.Add(time.Duration(i) * 37 * time.Minute).Format(time.RFC3339)
		got := f.Format(in)
		assert.Regexp(t, displayPattern, got)
		assert.NotContains(t, got, ",")
	}
}

func TestFormatDeterministic(t *testing.T) {
	f := New(time.UTC)
	assert.Equal(t, f.Format("2025-07-04T14:00"), f.Format("2025-07-04T14:00"))
}

func TestFormatInvalid(t *testing.T) {
	f := New(time.UTC)
	for _, in := range []string{"tomorrow", "2025-13-01T10:00", "07/04/2025", "2025-07-04T25:00"} {
		assert.Equal(t, InvalidDate, f.Format(in), "input %q", in)
	}
}

func TestParseInvalid(t *testing.T) {
	f := New(time.UTC)
	_, err := f.Parse("not a date")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))
	assert.True(t, strings.Contains(err.Error(), "not a date"))

	_, err = f.Parse("")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNormalize(t *testing.T) {
	f := New(time.FixedZone("EDT", -4*60*60))

	got, err := f.Normalize("2025-07-04T18:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-04T14:00", got)

	got, err = f.Normalize("2025-07-04")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-04T00:00", got)

	got, err = f.Normalize("  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = f.Normalize("soon")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNilLocationIsLocal(t *testing.T) {
	assert.Equal(t, time.Local, New(nil).Location())
}
