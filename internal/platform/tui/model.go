package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappyq/internal/core"
	"github.com/vovakirdan/flappyq/internal/trainer"
)

// Speed limits, in training ticks per frame.
const (
	minSpeed = 1
	maxSpeed = 1024
)

// chromeRows is the number of rows taken by the HUD and the help bar.
const chromeRows = 2

// Renderer draws the environment the driver is training on.
type Renderer interface {
	Render(dst *core.Screen)
}

// Options configures the live view.
type Options struct {
	// FrameInterval between ticks. Zero uses DefaultFrameInterval.
	FrameInterval time.Duration

	// MeanWindow is the number of recent trials averaged in the HUD.
	MeanWindow int

	// Width and Height are the initial terminal size.
	Width, Height int

	// ScreenshotDir receives plain-text screenshots. Empty disables them.
	ScreenshotDir string
}

// Model is the Bubble Tea model for watching a training run.
type Model struct {
	driver   *trainer.Driver
	world    Renderer
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	opts     Options
	speed    int
	paused   bool
	quitting bool
	err      error
}

// NewModel creates a live view over driver. world must be the environment
// the driver steps.
func NewModel(driver *trainer.Driver, world Renderer, opts Options) Model {
	if opts.MeanWindow <= 0 {
		opts.MeanWindow = 50
	}
	h := help.New()
	h.Width = opts.Width
	return Model{
		driver: driver,
		world:  world,
		screen: core.NewScreen(core.Max(opts.Width, 1), core.Max(opts.Height-chromeRows, 1)),
		keys:   DefaultKeyMap(),
		help:   h,
		opts:   opts,
		speed:  minSpeed,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.FrameInterval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, core.Max(msg.Height-chromeRows, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Faster):
		m.speed = core.Clamp(m.speed*2, minSpeed, maxSpeed)
	case key.Matches(msg, m.keys.Slower):
		m.speed = core.Clamp(m.speed/2, minSpeed, maxSpeed)
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// saveScreenshot writes the world area to ScreenshotDir as plain text.
func (m Model) saveScreenshot() {
	if m.opts.ScreenshotDir == "" {
		return
	}
	m.world.Render(m.screen)

	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(m.opts.ScreenshotDir, 0o755)

	name := fmt.Sprintf("trial%d_%s.txt", m.driver.Trial(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, training continues regardless
	os.WriteFile(filepath.Join(m.opts.ScreenshotDir, name), []byte(m.screen.String()), 0o600)
}

// handleTick runs speed training ticks unless paused.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused {
		for range m.speed {
			if _, err := m.driver.Step(); err != nil {
				if !errors.Is(err, trainer.ErrTrialLimit) {
					m.err = err
				}
				m.quitting = true
				return m, tea.Quit
			}
		}
	}
	return m, tickCmd(m.opts.FrameInterval)
}

// HUD returns the current status numbers.
func (m Model) HUD() HUD {
	h := HUD{
		Trial:   m.driver.Trial(),
		Window:  m.opts.MeanWindow,
		Visited: m.driver.Agent().Table().Visited(),
		Speed:   m.speed,
		Paused:  m.paused,
	}
	if ep := m.driver.Episode(); ep != nil {
		h.Score = ep.Score()
	}
	results := m.driver.Results()
	if last, ok := results.Last(); ok {
		h.Last = last.Score
	}
	if best, ok := results.Best(); ok {
		h.Best = best.Score
	}
	h.Mean = results.Mean(m.opts.MeanWindow)
	return h
}

// Err returns the error that stopped the view, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.world.Render(m.screen)

	var b strings.Builder
	b.WriteString(renderHUD(m.HUD()))
	b.WriteString("\n")
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(labelStyle.Render(m.help.View(m.keys)))
	}
	return b.String()
}

// Run starts the live view and blocks until the user quits or the driver
// reaches its trial limit.
func Run(driver *trainer.Driver, world Renderer, opts Options) error {
	p := tea.NewProgram(
		NewModel(driver, world, opts),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
