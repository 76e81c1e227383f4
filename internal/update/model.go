package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/momentum/internal/engine"
	"github.com/sandeepkv93/momentum/internal/model"
	"github.com/sandeepkv93/momentum/internal/rollover"
	"github.com/sandeepkv93/momentum/internal/storage"
)

type View string

const (
	ViewDashboard View = "Dashboard"
	ViewAnalytics View = "Analytics"
	ViewCalendar  View = "Calendar"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Dashboard string
	Analytics string
	Calendar  string
	Help      string
	Quit      string
}

type DashboardState struct {
	Cursor          int
	ConfirmDeleteID string
}

type TaskFormState struct {
	Active      bool
	EditingID   string
	CategoryIdx int
	Field       int
	Err         string
}

const (
	formFieldName = iota
	formFieldTarget
	formFieldCategory
)

type AnalyticsState struct {
	Report engine.Report
	Loaded bool
}

type CalendarState struct {
	FocusDate time.Time
	Cursor    int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView    View
	Tasks          []model.Task
	History        model.History
	Metrics        engine.Metrics
	Badges         map[engine.BadgeID]engine.BadgeState
	HighScoreWeek  bool
	Dashboard      DashboardState
	Form           TaskFormState
	Analytics      AnalyticsState
	Calendar       CalendarState
	Palette        CommandPaletteState
	HelpVisible    bool
	DesktopEnabled bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	Watcher        *rollover.Watcher

	repo     storage.Repository
	now      func() time.Time
	notifier DesktopNotifier

	// Bubble components used for rich TUI controls
	nameInput     textinput.Model
	targetInput   textinput.Model
	commandInput  textinput.Model
	categoryTable table.Model
	scoreProgress progress.Model
	helpModel     help.Model
	insightsView  viewport.Model
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type DayChangeMsg struct {
	Date string
}

func NewModel() Model {
	m := Model{
		CurrentView: ViewDashboard,
		History:     make(model.History),
		Badges:      make(map[engine.BadgeID]engine.BadgeState),
		now:         time.Now,
		notifier:    NoopDesktopNotifier{},
		Calendar:    CalendarState{Cursor: -1},
		Keys: GlobalKeyMap{
			Dashboard: "1",
			Analytics: "2",
			Calendar:  "3",
			Help:      "?",
			Quit:      "q",
		},
	}
	m.initBubbleComponents()
	m.recompute()
	return m
}

func NewModelWithRepository(repo storage.Repository) Model {
	return NewModelWithConfig(repo, nil, DefaultRuntimeConfig())
}

func NewModelWithConfig(repo storage.Repository, notifier DesktopNotifier, cfg RuntimeConfig) Model {
	m := NewModel()
	m.repo = repo
	m.DesktopEnabled = cfg.DesktopNotifications
	if notifier != nil {
		m.notifier = notifier
	}
	if m.repo != nil {
		if err := m.reloadFromStore(); err != nil {
			m.LastError = err
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			m.recompute()
		}
	} else {
		m.recompute()
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.nameInput = textinput.New()
	m.nameInput.Prompt = "name> "
	m.nameInput.CharLimit = 128
	m.nameInput.Width = 32

	m.targetInput = textinput.New()
	m.targetInput.Prompt = "target> "
	m.targetInput.CharLimit = 8
	m.targetInput.Width = 8

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	cols := []table.Column{
		{Title: "Category", Width: 12},
		{Title: "Completion", Width: 12},
	}
	m.categoryTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(7))

	m.scoreProgress = progress.New(progress.WithDefaultGradient())

	m.helpModel = help.New()
	m.insightsView = viewport.New(54, 10)
}

func (m Model) today() string {
	return model.DayKey(m.now())
}

func (m *Model) notify(title, body, level string) {
	if !m.DesktopEnabled {
		return
	}
	_ = m.notifier.Send(Notification{Title: title, Body: body, Level: level, At: m.now()})
}
