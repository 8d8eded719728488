package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/memory-match/internal/registry"
	"github.com/vovakirdan/memory-match/internal/storage"
)

const maxScores = 100 // per mode

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Mode key.Binding
	Grid key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Mode, k.Grid, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Mode, k.Grid},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Mode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		Grid: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grid filter"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel lists the best cleared grids of each mode. Scores from
// different grid sizes are not comparable, so the list can be narrowed to
// one grid.
type ScoreboardModel struct {
	modes      []registry.GameInfo
	modeCursor int
	store      *storage.Store
	all        []storage.ScoreEntry // Top scores of the selected mode
	grids      []string             // Grid sizes present in all, best first
	gridFilter int                  // 0 = every grid, i = grids[i-1]
	scores     []storage.ScoreEntry // Rows shown
	stats      map[string]*storage.GameStats
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		modes:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()

	if store != nil {
		if stats, err := store.GetAllGamesStats(); err == nil {
			m.stats = stats
		}
	}
	if len(m.modes) > 0 {
		m.loadScores(m.modes[0].ID)
	}
	return m
}

func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 10},
			{Title: "Grid", Width: 6},
			{Title: "Date", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
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

func gridLabel(s storage.ScoreEntry) string {
	if s.Rows > 0 && s.Cols > 0 {
		return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
	}
	return "-"
}

// loadScores loads the top scores of a mode and clears the grid filter.
func (m *ScoreboardModel) loadScores(mode string) {
	m.all = nil
	if m.store != nil {
		if scores, err := m.store.TopScores(mode, maxScores); err == nil {
			m.all = scores
		}
	}

	m.grids = nil
	seen := make(map[string]bool)
	for _, s := range m.all {
		if g := gridLabel(s); !seen[g] {
			seen[g] = true
			m.grids = append(m.grids, g)
		}
	}
	m.gridFilter = 0
	m.applyFilter()
}

func (m *ScoreboardModel) applyFilter() {
	m.scores = m.all
	if m.gridFilter > 0 {
		want := m.grids[m.gridFilter-1]
		m.scores = nil
		for _, s := range m.all {
			if gridLabel(s) == want {
				m.scores = append(m.scores, s)
			}
		}
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			gridLabel(s),
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Mode):
			if len(m.modes) > 0 {
				m.modeCursor = (m.modeCursor + 1) % len(m.modes)
				m.loadScores(m.modes[m.modeCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Grid):
			m.gridFilter = (m.gridFilter + 1) % (len(m.grids) + 1)
			m.applyFilter()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.applyFilter()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	b.WriteString(menuTitleStyle.Render(centerText("HIGH SCORES", m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.modeLine(), m.width))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(centerText(m.statsLine(), m.width)))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	if len(m.scores) == 0 {
		empty := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
		b.WriteString(centerText(box.Render(empty.Render("No scores recorded yet.\nClear a grid to set a high score!")), m.width))
	} else {
		b.WriteString(centerText(box.Render(m.table.View()), m.width))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// modeLine names every mode, highlighting the selected one, followed by the
// active grid filter.
func (m ScoreboardModel) modeLine() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	parts := make([]string, len(m.modes))
	for i, g := range m.modes {
		if i == m.modeCursor {
			parts[i] = active.Render("[" + g.Title + "]")
		} else {
			parts[i] = " " + g.Title + " "
		}
	}
	grid := "all grids"
	if m.gridFilter > 0 {
		grid = m.grids[m.gridFilter-1] + " only"
	}
	return strings.Join(parts, " ") + "  -  " + grid
}

// statsLine summarizes the selected mode.
func (m ScoreboardModel) statsLine() string {
	if len(m.modes) == 0 {
		return ""
	}
	st, ok := m.stats[m.modes[m.modeCursor].ID]
	if !ok {
		return "No grids cleared yet"
	}
	return fmt.Sprintf("%d finished  |  best %d  |  average %.0f  |  last %s",
		st.GamesCount, st.HighScore, st.AvgScore, st.LastPlayed.Local().Format("Jan 02 15:04"))
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
