// Package tui is an interactive week grid over a tracker.Tracker.
//
// The model never edits habits itself; every key that changes data calls
// the corresponding tracker operation, which also persists the change.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/habits/internal/habit"
	"github.com/roach88/habits/internal/tracker"
)

// Styles groups the lipgloss styles used by the grid.
type Styles struct {
	Header   lipgloss.Style
	DayHead  lipgloss.Style
	Today    lipgloss.Style
	Name     lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	NotDone  lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns the default indigo palette.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color("#4f46e5")).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		DayHead:  lipgloss.NewStyle().Foreground(lipgloss.Color("#312e81")).Bold(true),
		Today:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7c3aed")).Bold(true).Underline(true),
		Name:     lipgloss.NewStyle().Foreground(lipgloss.Color("#312e81")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#4f46e5")).Bold(true),
		Done:     lipgloss.NewStyle().Foreground(lipgloss.Color("#8b5cf6")),
		NotDone:  lipgloss.NewStyle().Foreground(lipgloss.Color("#a5b4fc")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#818cf8")).Italic(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")),
	}
}

type mode int

const (
	modeGrid mode = iota
	modeAdding
	modeConfirmRemove
)

const cellWidth = 5

// Model is the bubbletea model for the grid.
type Model struct {
	ctx     context.Context
	tracker *tracker.Tracker
	styles  Styles

	cursor int
	mode   mode
	input  textinput.Model
	status string
}

// New returns a grid model over tr.
func New(ctx context.Context, tr *tracker.Tracker) Model {
	in := textinput.New()
	in.Placeholder = "Add new habit..."
	in.CharLimit = 120
	in.Prompt = "+ "
	return Model{
		ctx:     ctx,
		tracker: tr,
		styles:  DefaultStyles(),
		input:   in,
	}
}

// Run starts an interactive program reading keys from in and drawing to
// out. It returns when the user quits or ctx is cancelled.
func Run(ctx context.Context, tr *tracker.Tracker, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(ctx, tr),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeAdding {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdding:
		return m.updateAdding(key)
	case modeConfirmRemove:
		return m.updateConfirmRemove(key), nil
	default:
		return m.updateGrid(key)
	}
}

func (m Model) updateGrid(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch s := key.String(); s {
	case "q", "esc":
		return m, tea.Quit
	case "left", "h":
		m.tracker.PreviousWeek()
	case "right", "l":
		m.tracker.NextWeek()
	case "t":
		m.tracker.ResetToToday()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.tracker.Len()-1 {
			m.cursor++
		}
	case "1", "2", "3", "4", "5", "6", "7":
		m.toggle(int(s[0] - '1'))
	case " ":
		if day, ok := m.tracker.TodayIndex(); ok {
			m.toggle(day)
		} else {
			m.status = "today is not in this week (press t)"
		}
	case "a":
		m.mode = modeAdding
		m.input.Reset()
		return m, m.input.Focus()
	case "d":
		if m.tracker.Len() > 0 {
			m.mode = modeConfirmRemove
		}
	}
	return m, nil
}

func (m Model) updateAdding(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		if h, ok := m.tracker.AddHabit(m.ctx, m.input.Value()); ok {
			m.cursor = m.tracker.Len() - 1
			m.status = fmt.Sprintf("added %q", h.Name)
			m.noteSaveError()
		}
		m.input.Reset()
		m.input.Blur()
		m.mode = modeGrid
		return m, nil
	case "esc":
		m.input.Reset()
		m.input.Blur()
		m.mode = modeGrid
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m Model) updateConfirmRemove(key tea.KeyMsg) Model {
	m.mode = modeGrid
	if key.String() != "y" {
		m.status = "kept"
		return m
	}
	h, _ := m.tracker.Habit(m.cursor)
	if m.tracker.RemoveHabit(m.ctx, m.cursor) {
		m.status = fmt.Sprintf("removed %q", h.Name)
		m.noteSaveError()
	}
	if m.cursor >= m.tracker.Len() && m.cursor > 0 {
		m.cursor--
	}
	return m
}

func (m *Model) toggle(day int) {
	if m.tracker.Len() == 0 {
		m.status = "add a habit first (press a)"
		return
	}
	if err := m.tracker.ToggleDay(m.ctx, m.cursor, day); err != nil {
		m.status = err.Error()
		return
	}
	m.noteSaveError()
}

func (m *Model) noteSaveError() {
	if err := m.tracker.LastSaveError(); err != nil {
		m.status = "not saved: " + err.Error()
	}
}

// Cursor returns the selected habit index.
func (m Model) Cursor() int {
	return m.cursor
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	tr := m.tracker

	title := tr.WeekRange()
	if tr.IsCurrentWeek() {
		title += " · this week"
	}
	sb.WriteString(m.styles.Header.Render("‹  "+title+"  ›") + "\n\n")

	nameWidth := lipgloss.Width("Habit")
	habits := tr.Habits()
	for _, h := range habits {
		nameWidth = max(nameWidth, lipgloss.Width(h.Name))
	}

	today, isCurrent := tr.TodayIndex()
	days := tr.WeekDays()
	sb.WriteString(strings.Repeat(" ", nameWidth+4))
	for i, name := range habit.DayNames {
		label := lipgloss.PlaceHorizontal(cellWidth, lipgloss.Center, fmt.Sprintf("%s %d", name[:2], days[i].Day()))
		if isCurrent && i == today {
			sb.WriteString(m.styles.Today.Render(label))
		} else {
			sb.WriteString(m.styles.DayHead.Render(label))
		}
	}
	sb.WriteString("\n")

	if len(habits) == 0 {
		sb.WriteString("\n" + m.styles.Muted.Render("Add your first habit to get started...") + "\n")
	}
	for i, h := range habits {
		marker, nameStyle := "  ", m.styles.Name
		if i == m.cursor {
			marker, nameStyle = "> ", m.styles.Selected
		}
		sb.WriteString(marker + nameStyle.Render(h.Name) + strings.Repeat(" ", nameWidth-lipgloss.Width(h.Name)+2))
		for _, done := range tr.CompletionData(h) {
			if done {
				sb.WriteString(m.styles.Done.Render(lipgloss.PlaceHorizontal(cellWidth, lipgloss.Center, "■")))
			} else {
				sb.WriteString(m.styles.NotDone.Render(lipgloss.PlaceHorizontal(cellWidth, lipgloss.Center, "·")))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	switch m.mode {
	case modeAdding:
		sb.WriteString(m.input.View() + "\n")
		sb.WriteString(m.styles.Muted.Render("enter save · esc cancel") + "\n")
	case modeConfirmRemove:
		h, _ := tr.Habit(m.cursor)
		sb.WriteString(m.styles.Error.Render(fmt.Sprintf("Remove %q and its history? (y/n)", h.Name)) + "\n")
	default:
		sb.WriteString(m.styles.Muted.Render("←/→ week · ↑/↓ habit · 1-7 toggle · space today · a add · d remove · t today · q quit") + "\n")
	}
	if m.status != "" {
		sb.WriteString(m.styles.Muted.Render(m.status) + "\n")
	}
	return sb.String()
}
