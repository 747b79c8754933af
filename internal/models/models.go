package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPriority is returned when a priority name is not recognised
var ErrUnknownPriority = errors.New("unknown priority")

// Priority is the severity of a task
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every valid priority, highest first
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority parses a priority name case-insensitively
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want High, Medium or Low)", ErrUnknownPriority, s)
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities for sorting. Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Next returns the following priority, wrapping from Low back to High
func (p Priority) Next() Priority {
	for i, q := range Priorities {
		if q == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityHigh
}

// Prev returns the preceding priority, wrapping from High to Low
func (p Priority) Prev() Priority {
	for i, q := range Priorities {
		if q == p {
			return Priorities[(i+len(Priorities)-1)%len(Priorities)]
		}
	}
	return PriorityLow
}

func (p Priority) String() string {
	return string(p)
}

// Task represents a single to-do item
type Task struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Priority  Priority  `json:"priority"`
	DueDate   string    `json:"dueDate,omitempty"` // empty when the task has no due date
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasDueDate reports whether the task carries a due date
func (t Task) HasDueDate() bool {
	return strings.TrimSpace(t.DueDate) != ""
}
