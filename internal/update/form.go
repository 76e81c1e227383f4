package update

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/momentum/internal/model"
	"github.com/sandeepkv93/momentum/internal/views"
)

func (m *Model) openTaskForm(editID string) {
	m.Form = TaskFormState{Active: true, EditingID: editID, Field: formFieldName}
	m.nameInput.SetValue("")
	m.targetInput.SetValue("1")
	m.Form.CategoryIdx = len(model.Categories()) - 1

	if editID != "" {
		if idx := m.taskIndexByID(editID); idx >= 0 {
			task := m.Tasks[idx]
			m.nameInput.SetValue(task.Name)
			m.targetInput.SetValue(strconv.FormatFloat(task.DailyTarget, 'f', -1, 64))
			for i, c := range model.Categories() {
				if c == task.Category {
					m.Form.CategoryIdx = i
				}
			}
		}
	}
	m.nameInput.Focus()
	m.targetInput.Blur()
}

func (m Model) handleFormKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Form = TaskFormState{}
		m.nameInput.Blur()
		m.targetInput.Blur()
		m.Status = StatusBar{Text: "form closed", IsError: false}
		return m
	case "tab", "shift+tab":
		delta := 1
		if msg.String() == "shift+tab" {
			delta = len(formFields) - 1
		}
		m.Form.Field = (m.Form.Field + delta) % len(formFields)
		if m.Form.Field == formFieldName {
			m.nameInput.Focus()
			m.targetInput.Blur()
		} else if m.Form.Field == formFieldTarget {
			m.targetInput.Focus()
			m.nameInput.Blur()
		} else {
			m.nameInput.Blur()
			m.targetInput.Blur()
		}
		return m
	case "enter":
		return m.submitTaskForm()
	}

	switch m.Form.Field {
	case formFieldCategory:
		cats := model.Categories()
		switch msg.String() {
		case "left", "h":
			m.Form.CategoryIdx = (m.Form.CategoryIdx + len(cats) - 1) % len(cats)
		case "right", "l", " ":
			m.Form.CategoryIdx = (m.Form.CategoryIdx + 1) % len(cats)
		}
	case formFieldTarget:
		var cmd tea.Cmd
		m.targetInput, cmd = m.targetInput.Update(msg)
		_ = cmd
	default:
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		_ = cmd
	}
	return m
}

func (m Model) submitTaskForm() Model {
	name := strings.TrimSpace(m.nameInput.Value())
	if name == "" {
		m.Form.Err = "name is required"
		return m
	}
	target, err := strconv.ParseFloat(strings.TrimSpace(m.targetInput.Value()), 64)
	if err != nil || target <= 0 {
		m.Form.Err = fmt.Sprintf("invalid target: %s", m.targetInput.Value())
		return m
	}
	category := string(model.Categories()[m.Form.CategoryIdx])

	if m.Form.EditingID != "" {
		err = m.updateTask(m.Form.EditingID, name, category, target)
	} else {
		err = m.addTask(name, category, target)
	}
	if err != nil {
		m.Form.Err = err.Error()
		return m
	}

	verb := "added"
	if m.Form.EditingID != "" {
		verb = "updated"
	}
	m.Form = TaskFormState{}
	m.nameInput.Blur()
	m.targetInput.Blur()
	m.Status = StatusBar{Text: fmt.Sprintf("task %s: %s", verb, name), IsError: false}
	return m
}

var formFields = []string{"name", "target", "category"}

func (m Model) renderTaskFormView() string {
	return views.RenderTaskForm(views.TaskFormData{
		EditMode:   m.Form.EditingID != "",
		NameView:   m.nameInput.View(),
		TargetView: m.targetInput.View(),
		Category:   string(model.Categories()[m.Form.CategoryIdx]),
		Field:      formFields[m.Form.Field],
		ErrorText:  m.Form.Err,
	})
}
