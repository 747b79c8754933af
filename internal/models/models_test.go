package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
	}{
		{"High", PriorityHigh},
		{"high", PriorityHigh},
		{" MEDIUM ", PriorityMedium},
		{"low", PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriorityUnknown(t *testing.T) {
	_, err := ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrUnknownPriority)
}

func TestPriorityOrdering(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Greater(t, PriorityLow.Rank(), Priority("Someday").Rank())
	assert.False(t, Priority("Someday").Valid())
	for _, p := range Priorities {
		assert.True(t, p.Valid(), p)
	}
}

func TestPriorityCycle(t *testing.T) {
	assert.Equal(t, PriorityMedium, PriorityHigh.Next())
	assert.Equal(t, PriorityLow, PriorityMedium.Next())
	assert.Equal(t, PriorityHigh, PriorityLow.Next())
	assert.Equal(t, PriorityLow, PriorityHigh.Prev())
	assert.Equal(t, PriorityHigh, Priority("").Next())
}

func TestHasDueDate(t *testing.T) {
	assert.False(t, Task{}.HasDueDate())
	assert.False(t, Task{DueDate: "  "}.HasDueDate())
	assert.True(t, Task{DueDate: "2025-07-04T14:00"}.HasDueDate())
}
