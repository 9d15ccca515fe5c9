package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappyq/internal/core"
	"github.com/vovakirdan/flappyq/internal/games/flappy"
)

// runeStyles maps world glyphs to lipgloss styles. Unlisted runes are unstyled.
var runeStyles = map[rune]lipgloss.Style{
	flappy.AvatarChar:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	flappy.PipeChar:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	flappy.PipeCapChar: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	flappy.GroundChar:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	flappy.DirtChar:    lipgloss.NewStyle().Foreground(lipgloss.Color("94")),
	flappy.DirtAltChar: lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
}

var (
	hudStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	pauseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells sharing a style are rendered as one run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		row := []rune(s.Row(y))
		for x := 0; x < len(row); {
			end := x
			for end < len(row) && row[end] == row[x] {
				end++
			}
			run := string(row[x:end])
			if style, ok := runeStyles[row[x]]; ok {
				sb.WriteString(style.Render(run))
			} else {
				sb.WriteString(run)
			}
			x = end
		}
	}
	return sb.String()
}

// HUD holds the numbers shown above the world.
type HUD struct {
	Trial   int
	Score   int
	Last    int
	Best    int
	Mean    float64
	Window  int
	Visited int
	Speed   int
	Paused  bool
}

// renderHUD formats the status line.
func renderHUD(h HUD) string {
	field := func(label, value string) string {
		return labelStyle.Render(label+" ") + hudStyle.Render(value)
	}
	parts := []string{
		field("trial", fmt.Sprint(h.Trial)),
		field("score", fmt.Sprint(h.Score)),
		field("last", fmt.Sprint(h.Last)),
		field("best", fmt.Sprint(h.Best)),
		field(fmt.Sprintf("mean(%d)", h.Window), fmt.Sprintf("%.2f", h.Mean)),
		field("visited", fmt.Sprint(h.Visited)),
		field("speed", fmt.Sprintf("x%d", h.Speed)),
	}
	line := strings.Join(parts, "  ")
	if h.Paused {
		line += "  " + pauseStyle.Render("PAUSED")
	}
	return line
}
