// Package tui provides the Bubble Tea live view of a training run.
// It paces the trainer with tea ticks and draws the world as scaled text.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a batch of training ticks.
type TickMsg time.Time

// DefaultFrameInterval is used when the configured pace is unpaced.
const DefaultFrameInterval = time.Second / 32

// tickCmd returns a Bubble Tea command that sends a tick message after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
