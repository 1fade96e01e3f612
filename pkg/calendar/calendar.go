// Package calendar lays out dated items in a month grid. The task and
// meeting views both feed it: meetings contribute their start times, tasks
// their due dates, and the grid merges the two.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quantum-ai/quantum-cli/client"
)

// Kind distinguishes grid item sources.
type Kind int

const (
	// KindMeeting marks an item from the meeting list.
	KindMeeting Kind = iota
	// KindTask marks an item from the action-item board.
	KindTask
)

// marker is the single-character grid annotation per kind.
func (k Kind) marker() string {
	if k == KindTask {
		return "!"
	}
	return "*"
}

// Item is one dated entry.
type Item struct {
	Date  time.Time
	Label string
	Kind  Kind
}

// Cell is one day of the grid. Day is 0 for cells outside the month.
type Cell struct {
	Day   int
	Items []Item
}

// Week is one grid row, Monday first.
type Week [7]Cell

// Grid is a month of cells with the items that fall inside it.
type Grid struct {
	Year  int
	Month time.Month
	Weeks []Week
}

// FromMeetings converts meetings to grid items keyed on start time.
// Meetings without a start time are dropped.
func FromMeetings(meetings []client.Meeting) []Item {
	var items []Item
	for _, m := range meetings {
		if m.StartTime.IsZero() {
			continue
		}
		label := m.Title
		if label == "" {
			label = m.NativeMeetingID
		}
		items = append(items, Item{Date: m.StartTime, Label: label, Kind: KindMeeting})
	}
	return items
}

// FromActionItems converts open action items to grid items keyed on due date.
// Items without a parseable due date, and done items, are dropped.
func FromActionItems(tasks []client.ActionItem) []Item {
	var items []Item
	for _, task := range tasks {
		if task.Status == "done" {
			continue
		}
		due, err := time.Parse("2006-01-02", task.DueDate)
		if err != nil {
			continue
		}
		items = append(items, Item{Date: due, Label: task.Task, Kind: KindTask})
	}
	return items
}

// MonthGrid builds the grid for a month, placing every item whose date falls
// inside it. Items in other months are ignored.
func MonthGrid(year int, month time.Month, items []Item) *Grid {
	byDay := map[int][]Item{}
	for _, item := range items {
		if item.Date.Year() != year || item.Date.Month() != month {
			continue
		}
		day := item.Date.Day()
		byDay[day] = append(byDay[day], item)
	}
	for day := range byDay {
		sort.SliceStable(byDay[day], func(i, j int) bool {
			return byDay[day][i].Date.Before(byDay[day][j].Date)
		})
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Monday-first column index of the 1st.
	offset := (int(first.Weekday()) + 6) % 7

	grid := &Grid{Year: year, Month: month}
	var week Week
	col := offset
	for day := 1; day <= daysInMonth; day++ {
		week[col] = Cell{Day: day, Items: byDay[day]}
		col++
		if col == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = Week{}
			col = 0
		}
	}
	if col != 0 {
		grid.Weeks = append(grid.Weeks, week)
	}

	return grid
}

// Days iterates the non-empty cells in order.
func (g *Grid) Days() []Cell {
	var cells []Cell
	for _, week := range g.Weeks {
		for _, cell := range week {
			if cell.Day != 0 {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// Render draws the grid as text. Days carrying meetings are marked with *,
// days with due tasks with !, and the item labels are listed below.
func (g *Grid) Render() string {
	var sb strings.Builder

	title := fmt.Sprintf("%s %d", g.Month, g.Year)
	sb.WriteString(strings.Repeat(" ", (28-len(title))/2) + title + "\n")
	sb.WriteString("Mon  Tue  Wed  Thu  Fri  Sat  Sun\n")

	for _, week := range g.Weeks {
		for col, cell := range week {
			if col > 0 {
				sb.WriteString("  ")
			}
			if cell.Day == 0 {
				sb.WriteString("   ")
				continue
			}
			mark := " "
			if len(cell.Items) > 0 {
				mark = cell.Items[0].Kind.marker()
				for _, item := range cell.Items {
					if item.Kind == KindTask {
						mark = KindTask.marker()
					}
				}
				if len(cell.Items) > 1 && hasBothKinds(cell.Items) {
					mark = "+"
				}
			}
			sb.WriteString(fmt.Sprintf("%2d%s", cell.Day, mark))
		}
		sb.WriteString("\n")
	}

	var listed bool
	for _, cell := range g.Days() {
		for _, item := range cell.Items {
			if !listed {
				sb.WriteString("\n")
				listed = true
			}
			sb.WriteString(fmt.Sprintf("%3d %s %s\n", cell.Day, item.Kind.marker(), item.Label))
		}
	}

	return sb.String()
}

func hasBothKinds(items []Item) bool {
	var meeting, task bool
	for _, item := range items {
		switch item.Kind {
		case KindMeeting:
			meeting = true
		case KindTask:
			task = true
		}
	}
	return meeting && task
}
