package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/memory-match/internal/config"
	"github.com/vovakirdan/memory-match/internal/core"
)

var (
	gridValidStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	gridInvalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	gridCursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
)

// GridSelection holds the user's choice from the grid menu.
type GridSelection struct {
	Resume bool // Continue the saved game; Grid is unused
	Grid   config.GridSize
}

type gridOption int

const (
	gridOptionResume gridOption = iota
	gridOptionPlay
	gridOptionChoose
)

// GridMenuModel lets users continue a saved game, start on the current grid
// or pick another grid size.
type GridMenuModel struct {
	title     string
	cfg       config.MemoryConfig
	current   config.GridSize
	valid     map[config.GridSize]bool
	options   []gridOption
	cursor    int
	inGrid    bool
	pick      config.GridSize
	notice    string
	width     int
	height    int
	keyMapper *KeyMapper
	selection GridSelection
	choosing  bool
	quitting  bool
	back      bool
}

// NewGridMenuModel creates a grid menu for a mode's configuration.
func NewGridMenuModel(title string, cfg config.MemoryConfig, current config.GridSize, hasSave bool, width, height int) GridMenuModel {
	valid := make(map[config.GridSize]bool)
	for _, g := range cfg.ValidGrids() {
		valid[g] = true
	}

	options := []gridOption{gridOptionPlay, gridOptionChoose}
	if hasSave {
		options = append([]gridOption{gridOptionResume}, options...)
	}

	return GridMenuModel{
		title:     title,
		cfg:       cfg,
		current:   current,
		valid:     valid,
		options:   options,
		pick:      current,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m GridMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m GridMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m GridMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	if m.inGrid {
		return m.handleGridKey(action)
	}
	return m.handleOptionKey(action)
}

func (m GridMenuModel) handleOptionKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		switch m.options[m.cursor] {
		case gridOptionResume:
			m.choosing = false
			m.selection = GridSelection{Resume: true}
			return m, tea.Quit
		case gridOptionPlay:
			m.choosing = false
			m.selection = GridSelection{Grid: m.current}
			return m, tea.Quit
		case gridOptionChoose:
			m.inGrid = true
			m.notice = ""
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

func (m GridMenuModel) handleGridKey(action MenuAction) (tea.Model, tea.Cmd) {
	l := m.cfg.Limits
	m.notice = ""

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.pick.Rows = core.Clamp(m.pick.Rows-1, l.MinRows, l.MaxRows)
	case MenuActionDown:
		m.pick.Rows = core.Clamp(m.pick.Rows+1, l.MinRows, l.MaxRows)
	case MenuActionLeft:
		m.pick.Cols = core.Clamp(m.pick.Cols-1, l.MinCols, l.MaxCols)
	case MenuActionRight:
		m.pick.Cols = core.Clamp(m.pick.Cols+1, l.MinCols, l.MaxCols)
	case MenuActionSelect:
		if !m.valid[m.pick] {
			m.notice = fmt.Sprintf("%s cannot be split into groups of %d", m.pick, m.cfg.Grid.GroupSize)
			return m, nil
		}
		m.choosing = false
		m.selection = GridSelection{Grid: m.pick}
		return m, tea.Quit
	case MenuActionBack:
		m.inGrid = false
	}

	return m, nil
}

// View renders the option list or the grid picker.
func (m GridMenuModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	if m.inGrid {
		return m.viewGrid()
	}
	return m.viewOptions()
}

func (m GridMenuModel) optionLabel(o gridOption) string {
	switch o {
	case gridOptionResume:
		return "Continue saved game"
	case gridOptionPlay:
		return fmt.Sprintf("New game (%s)", m.current)
	default:
		return "Choose grid..."
	}
}

func (m GridMenuModel) viewOptions() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText(strings.ToUpper(m.title), m.width)))
	b.WriteString("\n\n")

	for i, o := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+m.optionLabel(o), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width)))

	return b.String()
}

func (m GridMenuModel) viewGrid() string {
	var b strings.Builder
	l := m.cfg.Limits

	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText("SELECT GRID", m.width)))
	b.WriteString("\n\n")

	header := "     "
	for c := l.MinCols; c <= l.MaxCols; c++ {
		header += fmt.Sprintf("%3d", c)
	}
	b.WriteString(centerText(header, m.width))
	b.WriteString("\n")

	for r := l.MinRows; r <= l.MaxRows; r++ {
		var line strings.Builder
		line.WriteString(fmt.Sprintf("%4d ", r))
		for c := l.MinCols; c <= l.MaxCols; c++ {
			g := config.GridSize{Rows: r, Cols: c}
			switch {
			case g == m.pick:
				line.WriteString(gridCursorStyle.Render(" ■ "))
			case m.valid[g]:
				line.WriteString(gridValidStyle.Render(" ■ "))
			default:
				line.WriteString(gridInvalidStyle.Render(" · "))
			}
		}
		b.WriteString(centerText(line.String(), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	info := m.notice
	if info == "" {
		total := m.pick.Rows * m.pick.Cols
		info = fmt.Sprintf("%s: %d cards, %d groups of %d", m.pick, total, total/m.cfg.Grid.GroupSize, m.cfg.Grid.GroupSize)
	}
	b.WriteString(centerText(info, m.width))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(centerText("Arrows: Move  |  Enter: Play  |  Esc: Back  |  Q: Quit", m.width)))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m GridMenuModel) Selected() *GridSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m GridMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m GridMenuModel) WantsBack() bool {
	return m.back
}

// RunGridMenu runs the grid menu and returns the selection, or nil when the
// user went back or quit.
func RunGridMenu(title string, cfg config.MemoryConfig, current config.GridSize, hasSave bool, rc core.RuntimeConfig) (*GridSelection, core.RuntimeConfig, error) {
	model := NewGridMenuModel(title, cfg, current, hasSave, rc.ScreenW, rc.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, rc, err
	}

	m, ok := finalModel.(GridMenuModel)
	if !ok {
		return nil, rc, nil
	}
	rc.ScreenW, rc.ScreenH = m.width, m.height

	if m.IsQuitting() || m.WantsBack() {
		return nil, rc, nil
	}

	return m.Selected(), rc, nil
}
