package update

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/momentum/internal/model"
	"github.com/sandeepkv93/momentum/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	days := daysInMonth(m.Calendar.FocusDate)
	switch msg.String() {
	case "h", "left":
		m.shiftCalendarMonth(-1)
	case "l", "right":
		m.shiftCalendarMonth(1)
	case "j", "down":
		if m.Calendar.Cursor < days {
			m.Calendar.Cursor++
		}
	case "k", "up":
		if m.Calendar.Cursor > 1 {
			m.Calendar.Cursor--
		}
	case "t":
		m.Calendar.FocusDate = m.now()
		m.Calendar.Cursor = m.now().Day()
	}
	return m
}

func (m *Model) shiftCalendarMonth(delta int) {
	year, month, _ := m.Calendar.FocusDate.Date()
	m.Calendar.FocusDate = time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, m.Calendar.FocusDate.Location())
	if m.Calendar.Cursor > daysInMonth(m.Calendar.FocusDate) {
		m.Calendar.Cursor = daysInMonth(m.Calendar.FocusDate)
	}
}

func (m *Model) ensureCalendarState() {
	if m.Calendar.FocusDate.IsZero() {
		m.Calendar.FocusDate = m.now()
	}
	if m.Calendar.Cursor < 1 {
		m.Calendar.Cursor = m.now().Day()
	}
	if m.Calendar.Cursor > daysInMonth(m.Calendar.FocusDate) {
		m.Calendar.Cursor = daysInMonth(m.Calendar.FocusDate)
	}
}

func (m Model) renderCalendarView() string {
	focus := m.Calendar.FocusDate
	if focus.IsZero() {
		focus = m.now()
	}
	year, month, _ := focus.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, focus.Location())

	days := make([]views.DayCellData, 0, daysInMonth(focus))
	for d := 1; d <= daysInMonth(focus); d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, focus.Location())
		completion := 0
		recorded := false
		if rec, ok := m.History[model.DayKey(date)]; ok {
			completion = int(math.Round(rec.CompletionPercentage))
			recorded = true
		}
		days = append(days, views.DayCellData{
			Day:        d,
			Completion: completion,
			Recorded:   recorded,
			Selected:   d == m.Calendar.Cursor,
		})
	}

	return views.RenderCalendarHeatmap(views.CalendarHeatmapData{
		MonthTitle:   first.Format("January 2006"),
		LeadingBlank: int(first.Weekday()),
		Days:         days,
	})
}

func (m Model) renderCalendarDetailView() string {
	focus := m.Calendar.FocusDate
	if focus.IsZero() || m.Calendar.Cursor < 1 {
		return "day-detail:\n(no selection)"
	}
	year, month, _ := focus.Date()
	date := time.Date(year, month, m.Calendar.Cursor, 0, 0, 0, 0, focus.Location())
	key := model.DayKey(date)

	rec, ok := m.History[key]
	if !ok {
		return views.RenderDayDetail(views.DayDetailData{Date: key, Recorded: false})
	}
	return views.RenderDayDetail(views.DayDetailData{
		Date:       key,
		Recorded:   true,
		Completion: int(math.Round(rec.CompletionPercentage)),
		XPEarned:   rec.XPEarned,
		Tasks:      rec.Tasks,
	})
}

func daysInMonth(t time.Time) int {
	year, month, _ := t.Date()
	return time.Date(year, month+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
