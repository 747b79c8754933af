package styles

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/tgienger/taskcards/internal/models"
)

func TestPriorityBadge(t *testing.T) {
	tests := []struct {
		priority models.Priority
		want     string
	}{
		{models.PriorityHigh, TokenRed},
		{models.PriorityMedium, TokenYellow},
		{models.PriorityLow, TokenGreen},
		{models.Priority("Someday"), TokenGray},
		{models.Priority(""), TokenGray},
	}
	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			got := PriorityBadge(tt.priority)
			assert.Equal(t, tt.want, got.Token)
			assert.NotEmpty(t, got.Color)
		})
	}
}

func TestPriorityBadgeIsTotal(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range models.Priorities {
		b := PriorityBadge(p)
		assert.NotEqual(t, TokenGray, b.Token, "priority %s fell through to default", p)
		assert.False(t, seen[b.Token], "token %s used twice", b.Token)
		seen[b.Token] = true
	}
}

func TestRenderBadge(t *testing.T) {
	s := NewStyles()
	assert.Equal(t, " High ", ansi.Strip(s.RenderBadge(models.PriorityHigh)))
	assert.Equal(t, " None ", ansi.Strip(s.RenderBadge("")))
}

func TestContentWidth(t *testing.T) {
	assert.Equal(t, 60, ContentWidth(60))
	assert.Equal(t, MaxWidth, ContentWidth(200))
}
