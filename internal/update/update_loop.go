package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/momentum/internal/rollover"
	"github.com/sandeepkv93/momentum/internal/views"
)

func waitForDayChangeCmd(ch <-chan rollover.DayChange) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return DayChangeMsg{Date: ev.Date}
	}
}

func (m Model) Init() tea.Cmd {
	if m.Watcher != nil {
		return waitForDayChangeCmd(m.Watcher.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.Form.Active {
			return m.handleFormKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Dashboard:
			m.switchView(ViewDashboard)
			return m, nil
		case m.Keys.Analytics:
			m.switchView(ViewAnalytics)
			return m, nil
		case m.Keys.Calendar:
			m.switchView(ViewCalendar)
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			if m.Watcher != nil {
				m.Watcher.Stop()
			}
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewDashboard:
			return m.handleDashboardKey(typed), nil
		case ViewAnalytics:
			return m.handleAnalyticsKey(typed), nil
		case ViewCalendar:
			return m.handleCalendarKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.failStatus(typed.Err)
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case DayChangeMsg:
		m.resetForNewDay()
		m.Status = StatusBar{Text: fmt.Sprintf("new day: %s", typed.Date), IsError: false}
		m.notify("New Day", fmt.Sprintf("Habits reset for %s", typed.Date), "info")
		if m.Watcher != nil {
			return m, waitForDayChangeCmd(m.Watcher.C())
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) switchView(v View) {
	m.CurrentView = v
	if v == ViewAnalytics {
		m.refreshAnalytics()
	}
	if v == ViewCalendar {
		m.ensureCalendarState()
	}
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewDashboard:
		leftPane = m.renderDashboardView()
		if m.Form.Active {
			rightPane = m.renderTaskFormView()
		} else {
			rightPane = m.renderBadgeGridView()
		}
	case ViewAnalytics:
		leftPane = m.renderAnalyticsView()
		rightPane = m.renderInsightsView()
	case ViewCalendar:
		leftPane = m.renderCalendarView()
		rightPane = m.renderCalendarDetailView()
	}
	if m.Palette.Active {
		rightPane = views.RenderCommandPalette(true, m.Palette.Input) + "\n" + rightPane
	}
	if m.HelpVisible {
		rightPane = rightPane + "\n" + m.renderHelpView()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("momentum | view: %s | %s", m.CurrentView, m.today()),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Footer: fmt.Sprintf("keys: %s dashboard | %s analytics | %s cal | / cmd | %s help | %s quit",
			m.Keys.Dashboard, m.Keys.Analytics, m.Keys.Calendar, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewDashboard, ViewAnalytics, ViewCalendar:
		return true
	default:
		return false
	}
}
