package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/habits/internal/habit"
	"github.com/roach88/habits/internal/tracker"
)

// WeekView is the JSON shape of the show command.
type WeekView struct {
	Week        habit.WeekKey `json:"week"`
	Range       string        `json:"range"`
	CurrentWeek bool          `json:"current_week"`
	Dates       []string      `json:"dates"`
	Habits      []HabitRow    `json:"habits"`
}

// HabitRow is one habit's line in a WeekView.
type HabitRow struct {
	Index int        `json:"index"`
	ID    habit.ID   `json:"id"`
	Name  string     `json:"name"`
	Days  habit.Week `json:"days"`
	Done  int        `json:"done"`
}

// buildWeekView snapshots the tracker's viewed week.
func buildWeekView(tr *tracker.Tracker) WeekView {
	v := WeekView{
		Week:        tr.CurrentWeekKey(),
		Range:       tr.WeekRange(),
		CurrentWeek: tr.IsCurrentWeek(),
		Habits:      []HabitRow{},
	}
	for _, d := range tr.WeekDays() {
		v.Dates = append(v.Dates, d.Format(habit.WeekKeyLayout))
	}
	for i, h := range tr.Habits() {
		days := tr.CompletionData(h)
		v.Habits = append(v.Habits, HabitRow{Index: i, ID: h.ID, Name: h.Name, Days: days, Done: days.Done()})
	}
	return v
}

const (
	markDone    = "x"
	markNotDone = "."
	dayColWidth = 4
)

// renderWeek draws the viewed week as a plain-text grid.
func renderWeek(tr *tracker.Tracker) string {
	var sb strings.Builder

	title := "Week of " + tr.WeekRange()
	if tr.IsCurrentWeek() {
		title += " (this week)"
	}
	sb.WriteString(title + "\n\n")

	habits := tr.Habits()
	if len(habits) == 0 {
		sb.WriteString("No habits yet. Add your first one with: habits add <name>\n")
		return sb.String()
	}

	nameWidth := lipgloss.Width("Habit")
	for _, h := range habits {
		nameWidth = max(nameWidth, lipgloss.Width(h.Name))
	}
	indexWidth := len(fmt.Sprint(len(habits) - 1))

	sb.WriteString(pad("#", indexWidth) + "  " + pad("Habit", nameWidth) + "  ")
	for _, name := range habit.DayNames {
		sb.WriteString(pad(name, dayColWidth))
	}
	sb.WriteString("Done\n")

	dates := strings.Repeat(" ", indexWidth+2+nameWidth+2)
	for _, d := range tr.WeekDays() {
		dates += pad(fmt.Sprint(d.Day()), dayColWidth)
	}
	sb.WriteString(strings.TrimRight(dates, " ") + "\n")

	for i, h := range habits {
		days := tr.CompletionData(h)
		sb.WriteString(pad(fmt.Sprint(i), indexWidth) + "  " + pad(h.Name, nameWidth) + "  ")
		for _, done := range days {
			mark := markNotDone
			if done {
				mark = markDone
			}
			sb.WriteString(pad(" "+mark, dayColWidth))
		}
		fmt.Fprintf(&sb, "%d/%d\n", days.Done(), habit.DaysPerWeek)
	}
	return sb.String()
}

// pad right-pads s with spaces to display width w.
func pad(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
