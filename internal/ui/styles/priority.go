package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskcards/internal/models"
)

// Badge color tokens
const (
	TokenRed    = "red"
	TokenYellow = "yellow"
	TokenGreen  = "green"
	TokenGray   = "gray" // unknown priorities
)

// Badge is the color assigned to a priority badge
type Badge struct {
	Token string
	Color lipgloss.Color
}

// PriorityBadge maps a priority to its badge color. Unknown priorities get
// the gray badge.
func PriorityBadge(p models.Priority) Badge {
	t := Current
	switch p {
	case models.PriorityHigh:
		return Badge{Token: TokenRed, Color: t.Red}
	case models.PriorityMedium:
		return Badge{Token: TokenYellow, Color: t.Yellow}
	case models.PriorityLow:
		return Badge{Token: TokenGreen, Color: t.Green}
	}
	return Badge{Token: TokenGray, Color: t.Gray}
}

// RenderBadge renders the priority text on its badge color
func (s *Styles) RenderBadge(p models.Priority) string {
	text := string(p)
	if text == "" {
		text = "None"
	}
	return s.Badge.Background(PriorityBadge(p).Color).Render(text)
}
