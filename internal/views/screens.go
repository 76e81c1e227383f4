package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	Name      string
	Category  string
	Target    float64
	Completed bool
	Selected  bool
}

type DashboardPanelData struct {
	LifeScore       int
	DailyCompletion int
	XPToday         int
	Streak          int
	ProgressView    string
	Tasks           []TaskRowData
	ConfirmDelete   string
}

type BadgeCellData struct {
	Name        string
	Description string
	Earned      bool
}

type BadgeGridData struct {
	Badges []BadgeCellData
}

type AnalyticsPanelData struct {
	ConsistencyScore  int
	MostProductiveDay string
	TotalXP           int
	TrendCompletions  []int
	CategoryTableView string
}

type DayCellData struct {
	Day        int
	Completion int
	Recorded   bool
	Selected   bool
}

type CalendarHeatmapData struct {
	MonthTitle   string
	LeadingBlank int
	Days         []DayCellData
}

type DayDetailData struct {
	Date       string
	Recorded   bool
	Completion int
	XPEarned   int
	Tasks      []string
}

type TaskFormData struct {
	EditMode   bool
	NameView   string
	TargetView string
	Category   string
	Field      string
	ErrorText  string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

// MotivationLine picks the dashboard banner for a life score tier.
func MotivationLine(lifeScore int) string {
	if lifeScore >= 80 {
		return "You're crushing it! Keep up the amazing work!"
	}
	if lifeScore >= 60 {
		return "Great progress! You're building solid momentum!"
	}
	if lifeScore >= 40 {
		return "You're on the right track! Keep pushing forward!"
	}
	return "Every journey starts with a single step. You've got this!"
}

func RenderDashboardPanel(data DashboardPanelData) string {
	var b strings.Builder
	b.WriteString("dashboard:\n")
	b.WriteString(fmt.Sprintf("life-score: %d | today: %d%% | xp: %d | streak: %d\n",
		data.LifeScore, data.DailyCompletion, data.XPToday, data.Streak))
	b.WriteString("progress: " + data.ProgressView + "\n")
	b.WriteString(MotivationLine(data.LifeScore) + "\n")
	b.WriteString("actions: [j/k]move [space]toggle [a]dd [e]dit [d]elete\n")

	if len(data.Tasks) == 0 {
		b.WriteString("\n(no tasks yet, press [a] to add one)")
		return strings.TrimSpace(b.String())
	}

	b.WriteString("\ntasks:\n")
	for _, row := range data.Tasks {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		check := "[ ]"
		if row.Completed {
			check = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s %s (%s, target %g)\n", cursor, check, row.Name, row.Category, row.Target))
	}

	if data.ConfirmDelete != "" {
		b.WriteString(fmt.Sprintf("\nconfirm: delete %q? [y/n]", data.ConfirmDelete))
	}
	return strings.TrimSpace(b.String())
}

func RenderBadgeGrid(data BadgeGridData) string {
	var b strings.Builder
	b.WriteString("badges:\n")
	for _, badge := range data.Badges {
		mark := "[ ]"
		if badge.Earned {
			mark = "[*]"
		}
		b.WriteString(fmt.Sprintf("%s %s - %s\n", mark, badge.Name, badge.Description))
	}
	return strings.TrimSpace(b.String())
}

var sparklineLevels = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline maps 0..100 completion values onto eight block levels.
func RenderSparkline(values []int) string {
	var b strings.Builder
	for _, v := range values {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		idx := v * (len(sparklineLevels) - 1) / 100
		b.WriteRune(sparklineLevels[idx])
	}
	return b.String()
}

func RenderAnalyticsPanel(data AnalyticsPanelData) string {
	var b strings.Builder
	b.WriteString("analytics:\n")
	b.WriteString(fmt.Sprintf("perfect-days: %d | best-day: %s | total-xp: %d\n",
		data.ConsistencyScore, data.MostProductiveDay, data.TotalXP))
	b.WriteString("actions: [j/k]categories [r]efresh\n")
	b.WriteString("\n30-day trend:\n")
	b.WriteString(RenderSparkline(data.TrendCompletions) + "\n")
	b.WriteString("\ncategories:\n")
	b.WriteString(data.CategoryTableView)
	return strings.TrimSpace(b.String())
}

// heatCell maps a day's completion onto one of six intensity tiers.
func heatCell(completion int, recorded bool) string {
	if !recorded || completion == 0 {
		return "·"
	}
	switch {
	case completion < 25:
		return "░"
	case completion < 50:
		return "▒"
	case completion < 75:
		return "▓"
	case completion < 100:
		return "█"
	default:
		return "★"
	}
}

func RenderCalendarHeatmap(data CalendarHeatmapData) string {
	var b strings.Builder
	b.WriteString("calendar:\n")
	b.WriteString(fmt.Sprintf("month: %s\n", data.MonthTitle))
	b.WriteString("actions: [h/l]month [j/k]day [t]oday\n\n")
	b.WriteString(" Su  Mo  Tu  We  Th  Fr  Sa\n")

	col := 0
	for i := 0; i < data.LeadingBlank; i++ {
		b.WriteString("    ")
		col++
	}
	for _, day := range data.Days {
		cell := heatCell(day.Completion, day.Recorded)
		if day.Selected {
			b.WriteString(fmt.Sprintf("[%s%2d]", cell, day.Day))
		} else {
			b.WriteString(fmt.Sprintf(" %s%2d", cell, day.Day))
		}
		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\nlegend: · none  ░ <25%  ▒ <50%  ▓ <75%  █ <100%  ★ 100%")
	return strings.TrimSpace(b.String())
}

func RenderDayDetail(data DayDetailData) string {
	var b strings.Builder
	b.WriteString("day-detail:\n")
	b.WriteString(fmt.Sprintf("date: %s\n", data.Date))
	if !data.Recorded {
		b.WriteString("(no record for this day)")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("completion: %d%%\n", data.Completion))
	b.WriteString(fmt.Sprintf("xp: %d\n", data.XPEarned))
	if len(data.Tasks) == 0 {
		b.WriteString("completed: (none)")
		return b.String()
	}
	b.WriteString("completed:\n")
	for _, name := range data.Tasks {
		b.WriteString("- " + name + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderTaskForm(data TaskFormData) string {
	title := "add task"
	if data.EditMode {
		title = "edit task"
	}
	var b strings.Builder
	b.WriteString(title + ":\n")
	b.WriteString("keys: [tab]field [enter]save [esc]cancel\n")
	b.WriteString(fieldMarker(data.Field, "name") + data.NameView + "\n")
	b.WriteString(fieldMarker(data.Field, "target") + data.TargetView + "\n")
	b.WriteString(fieldMarker(data.Field, "category") + fmt.Sprintf("category> < %s >", data.Category) + "\n")
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText)
	}
	return strings.TrimSpace(b.String())
}

func fieldMarker(active, field string) string {
	if active == field {
		return "> "
	}
	return "  "
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
