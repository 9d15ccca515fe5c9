package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappyq/internal/core"
	"github.com/vovakirdan/flappyq/internal/storage"
)

// Trial browser layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the run list sidebar
	sidebarWidth       = 22  // Width of run list sidebar
	maxRuns            = 50  // Max runs listed
	maxTrials          = 500 // Max trials loaded per run
)

// TrialsKeyMap defines the key bindings for the trial browser.
type TrialsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextRun key.Binding
	PrevRun key.Binding
	Order   key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k TrialsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextRun, k.PrevRun, k.Order, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k TrialsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextRun, k.PrevRun},
		{k.Order, k.Quit},
	}
}

// DefaultTrialsKeyMap returns default key bindings.
func DefaultTrialsKeyMap() TrialsKeyMap {
	return TrialsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextRun: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "older run"),
		),
		PrevRun: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "newer run"),
		),
		Order: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort by score/trial"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// TrialsModel is the Bubble Tea model for browsing stored trial history.
type TrialsModel struct {
	store       *storage.Store
	runs        []storage.Run // Newest first
	runCursor   int
	trials      []storage.TrialRecord
	stats       *storage.RunStats
	byScore     bool
	loadErr     error
	table       table.Model
	help        help.Model
	keys        TrialsKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewTrialsModel creates a trial browser starting at the run with ID
// startRun, or at the newest run when startRun is not found.
func NewTrialsModel(store *storage.Store, startRun int64, width, height int) TrialsModel {
	h := help.New()
	h.Width = width

	m := TrialsModel{
		store:       store,
		keys:        DefaultTrialsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()

	runs, err := store.Runs(maxRuns)
	if err != nil {
		m.loadErr = err
		return m
	}
	m.runs = runs
	for i, r := range runs {
		if r.ID == startRun {
			m.runCursor = i
		}
	}
	m.loadTrials()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *TrialsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Trial", Width: 8},
		{Title: "Score", Width: 8},
		{Title: "Ticks", Width: 8},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(core.Max(m.height-10, 3)), // Leave room for header, stats and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadTrials loads the trials and stats of the selected run.
func (m *TrialsModel) loadTrials() {
	m.trials, m.stats, m.loadErr = nil, nil, nil
	if len(m.runs) == 0 {
		m.updateTableRows()
		return
	}

	runID := m.runs[m.runCursor].ID
	var err error
	if m.byScore {
		m.trials, err = m.store.TopTrials(runID, maxTrials)
	} else {
		m.trials, err = m.store.Trials(runID)
	}
	if err == nil {
		m.stats, err = m.store.RunStats(runID)
	}
	m.loadErr = err
	m.updateTableRows()
}

// updateTableRows updates the table with current trials.
func (m *TrialsModel) updateTableRows() {
	rows := make([]table.Row, len(m.trials))
	for i, tr := range m.trials {
		rows[i] = table.Row{
			fmt.Sprintf("%d", tr.Trial),
			fmt.Sprintf("%d", tr.Score),
			fmt.Sprintf("%d", tr.Ticks),
			tr.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the trial browser.
func (m TrialsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the trial browser.
func (m TrialsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextRun):
			if len(m.runs) > 0 {
				m.runCursor = (m.runCursor + 1) % len(m.runs)
				m.loadTrials()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevRun):
			if len(m.runs) > 0 {
				m.runCursor = (m.runCursor - 1 + len(m.runs)) % len(m.runs)
				m.loadTrials()
			}
			return m, nil

		case key.Matches(msg, m.keys.Order):
			m.byScore = !m.byScore
			m.loadTrials()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the trial browser.
func (m TrialsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "TRIALS"
	if len(m.runs) > 0 {
		r := m.runs[m.runCursor]
		title = fmt.Sprintf("TRIALS - run %d (seed %d, table %s)", r.ID, r.Seed, r.TableName)
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, titleStyle.Render(title)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderStats()))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	content := boxStyle.Render(m.renderTableContent())
	if m.showSidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content)
	}
	b.WriteString(content)

	b.WriteString("\n")
	b.WriteString(labelStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderStats formats the aggregate line of the selected run.
func (m TrialsModel) renderStats() string {
	if m.stats == nil {
		return ""
	}
	return fmt.Sprintf("%s %d  %s %d  %s %.2f  %s %d",
		labelStyle.Render("trials"), m.stats.Trials,
		labelStyle.Render("best"), m.stats.BestScore,
		labelStyle.Render("mean"), m.stats.AvgScore,
		labelStyle.Render("ticks"), m.stats.TotalTicks,
	)
}

// renderSidebar renders the run list.
func (m TrialsModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Runs\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, r := range m.runs {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.runCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(fmt.Sprintf("%s#%d %s", cursor, r.ID, r.StartedAt.Format("Jan 02 15:04"))))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

// renderTableContent renders the table or an empty/error message.
func (m TrialsModel) renderTableContent() string {
	if m.loadErr != nil {
		return errorStyle.Render(m.loadErr.Error())
	}
	if len(m.trials) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No trials recorded yet.\nRun `flappyq train` to start learning!")
	}
	return m.table.View()
}

// RunTrials runs the interactive trial browser.
func RunTrials(store *storage.Store, startRun int64, width, height int) error {
	p := tea.NewProgram(
		NewTrialsModel(store, startRun, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
