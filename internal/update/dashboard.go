package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/momentum/internal/engine"
	"github.com/sandeepkv93/momentum/internal/model"
	"github.com/sandeepkv93/momentum/internal/views"
)

func (m Model) handleDashboardKey(msg tea.KeyMsg) Model {
	if m.Dashboard.ConfirmDeleteID != "" {
		switch msg.String() {
		case "y", "enter":
			id := m.Dashboard.ConfirmDeleteID
			m.Dashboard.ConfirmDeleteID = ""
			if err := m.deleteTask(id); err != nil {
				m.failStatus(err)
			} else {
				m.Status = StatusBar{Text: "task deleted", IsError: false}
			}
		default:
			m.Dashboard.ConfirmDeleteID = ""
			m.Status = StatusBar{Text: "delete cancelled", IsError: false}
		}
		return m
	}

	switch msg.String() {
	case "up", "k":
		if m.Dashboard.Cursor > 0 {
			m.Dashboard.Cursor--
		}
	case "down", "j":
		if m.Dashboard.Cursor < len(m.Tasks)-1 {
			m.Dashboard.Cursor++
		}
	case " ", "enter":
		if task, ok := m.currentTask(); ok {
			if err := m.toggleTask(task.ID); err != nil {
				m.failStatus(err)
			} else if m.Tasks[m.taskIndexByID(task.ID)].Completed {
				m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", task.Name), IsError: false}
			} else {
				m.Status = StatusBar{Text: fmt.Sprintf("unchecked: %s", task.Name), IsError: false}
			}
		}
	case "a":
		m.openTaskForm("")
	case "e":
		if task, ok := m.currentTask(); ok {
			m.openTaskForm(task.ID)
		}
	case "d":
		if task, ok := m.currentTask(); ok {
			m.Dashboard.ConfirmDeleteID = task.ID
			m.Status = StatusBar{Text: fmt.Sprintf("delete %q? [y/n]", task.Name), IsError: false}
		}
	}
	return m
}

func (m Model) currentTask() (model.Task, bool) {
	if m.Dashboard.Cursor < 0 || m.Dashboard.Cursor >= len(m.Tasks) {
		return model.Task{}, false
	}
	return m.Tasks[m.Dashboard.Cursor], true
}

func (m Model) renderDashboardView() string {
	rows := make([]views.TaskRowData, 0, len(m.Tasks))
	for i, task := range m.Tasks {
		rows = append(rows, views.TaskRowData{
			Name:      task.Name,
			Category:  string(task.Category),
			Target:    task.DailyTarget,
			Completed: task.Completed,
			Selected:  i == m.Dashboard.Cursor,
		})
	}

	confirmName := ""
	if m.Dashboard.ConfirmDeleteID != "" {
		if idx := m.taskIndexByID(m.Dashboard.ConfirmDeleteID); idx >= 0 {
			confirmName = m.Tasks[idx].Name
		}
	}

	bar := m.scoreProgress.ViewAs(float64(m.Metrics.DailyCompletion) / 100)
	return views.RenderDashboardPanel(views.DashboardPanelData{
		LifeScore:       m.Metrics.LifeScore,
		DailyCompletion: m.Metrics.DailyCompletion,
		XPToday:         m.Metrics.XPToday,
		Streak:          m.Metrics.Streak,
		ProgressView:    bar,
		Tasks:           rows,
		ConfirmDelete:   confirmName,
	})
}

func (m Model) renderBadgeGridView() string {
	cells := make([]views.BadgeCellData, 0)
	for _, badge := range engine.Catalogue() {
		cells = append(cells, views.BadgeCellData{
			Name:        badge.Name,
			Description: badge.Description,
			Earned:      m.Badges[badge.ID].Earned,
		})
	}
	return views.RenderBadgeGrid(views.BadgeGridData{Badges: cells})
}
