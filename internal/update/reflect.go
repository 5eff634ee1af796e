package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/routined/internal/model"
)

func (m *Model) openReflectEditor(kind ReflectKind, targetID, targetName string, date time.Time, durationSec int) {
	m.Reflect = ReflectEditorState{
		Active:      true,
		Kind:        kind,
		TargetID:    targetID,
		TargetName:  targetName,
		Date:        date,
		DurationSec: durationSec,
		Field:       fieldMoodBefore,
		MoodBefore:  3,
		MoodAfter:   3,
	}
	m.Status = StatusBar{Text: "reflection: how did it go?", IsError: false}
}

func (m Model) handleReflectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Reflect.Active = false
		m.Status = StatusBar{Text: "reflection cancelled", IsError: false}
		return m, nil
	case "tab", "down":
		m.Reflect.Field = (m.Reflect.Field + 1) % 4
		return m, nil
	case "shift+tab", "up":
		m.Reflect.Field = (m.Reflect.Field + 3) % 4
		return m, nil
	case "enter":
		return m.submitReflection()
	case "backspace":
		switch m.Reflect.Field {
		case fieldPreviousActivity:
			m.Reflect.PreviousActivity = trimLastRune(m.Reflect.PreviousActivity)
		case fieldNextActivity:
			m.Reflect.NextActivity = trimLastRune(m.Reflect.NextActivity)
		}
		return m, nil
	}

	if m.Reflect.Field == fieldMoodBefore || m.Reflect.Field == fieldMoodAfter {
		return m.handleMoodKey(msg), nil
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		switch m.Reflect.Field {
		case fieldPreviousActivity:
			m.Reflect.PreviousActivity += text
		case fieldNextActivity:
			m.Reflect.NextActivity += text
		}
	}
	return m, nil
}

func (m Model) handleMoodKey(msg tea.KeyMsg) Model {
	mood := &m.Reflect.MoodBefore
	if m.Reflect.Field == fieldMoodAfter {
		mood = &m.Reflect.MoodAfter
	}
	switch msg.String() {
	case "1", "2", "3", "4", "5":
		*mood = int(msg.String()[0] - '0')
	case "+", "l", "right":
		if *mood < model.MoodScaleMax {
			*mood++
		}
	case "-", "h", "left":
		if *mood > model.MoodScaleMin {
			*mood--
		}
	}
	return m
}

func (m Model) submitReflection() (tea.Model, tea.Cmd) {
	reflection := model.Reflection{
		MoodBefore:       m.Reflect.MoodBefore,
		MoodAfter:        m.Reflect.MoodAfter,
		PreviousActivity: m.Reflect.PreviousActivity,
		NextActivity:     m.Reflect.NextActivity,
	}
	if err := reflection.Validate(); err != nil {
		m.Reflect.Err = err.Error()
		return m, nil
	}

	state := m.Reflect
	m.Reflect.Active = false
	m.Reflect.Err = ""

	switch state.Kind {
	case ReflectHabit:
		return m, m.tickHabitCmd(state.TargetID, state.TargetName, state.Date, reflection)
	default:
		if state.TargetID == m.Focus.TaskID {
			m.Focus = FocusState{}
		}
		return m, m.markDoneCmd(state.TargetID, state.TargetName, state.Date, state.DurationSec, reflection)
	}
}

func trimLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}
