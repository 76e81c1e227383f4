package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/momentum/internal/engine"
	"github.com/sandeepkv93/momentum/internal/views"
)

// refreshAnalytics recomputes the report. Runs on every entry into the
// analytics view so the window always ends on the current day.
func (m *Model) refreshAnalytics() {
	m.Analytics.Report = engine.ComputeAnalytics(m.History, m.Tasks, m.now())
	m.Analytics.Loaded = true

	rows := make([]table.Row, 0, len(m.Analytics.Report.CategoryPerformance))
	for _, score := range m.Analytics.Report.CategoryPerformance {
		rows = append(rows, table.Row{string(score.Category), fmt.Sprintf("%d%%", score.Percentage)})
	}
	m.categoryTable.SetRows(rows)

	var md strings.Builder
	md.WriteString("## Insights\n\n")
	for _, line := range m.Analytics.Report.Insights {
		md.WriteString("- " + line + "\n")
	}
	m.insightsView.SetContent(views.RenderMarkdown(md.String()))
}

func (m Model) handleAnalyticsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k", "down", "j":
		var cmd tea.Cmd
		m.categoryTable, cmd = m.categoryTable.Update(msg)
		_ = cmd
	case "r":
		m.refreshAnalytics()
		m.Status = StatusBar{Text: "analytics refreshed", IsError: false}
	}
	return m
}

func (m Model) renderAnalyticsView() string {
	rep := m.Analytics.Report
	completions := make([]int, 0, len(rep.DailyTrend))
	for _, p := range rep.DailyTrend {
		completions = append(completions, p.Completion)
	}
	return views.RenderAnalyticsPanel(views.AnalyticsPanelData{
		ConsistencyScore:  rep.ConsistencyScore,
		MostProductiveDay: rep.MostProductiveDay,
		TotalXP:           rep.TotalXP,
		TrendCompletions:  completions,
		CategoryTableView: m.categoryTable.View(),
	})
}

func (m Model) renderInsightsView() string {
	return "insights:\n" + m.insightsView.View()
}
