package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/routined/internal/commands"
	"github.com/sandeepkv93/routined/internal/dashboard"
	"github.com/sandeepkv93/routined/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var followUp tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			if a.Index > len(m.Day.Occurrences) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("the day has %d occurrences", len(m.Day.Occurrences))}
			}
			occ := m.Day.Occurrences[a.Index-1]
			if occ.Status == dashboard.StatusDone {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "occurrence already done"}
			}
			followUp = m.markDoneCmd(occ.TaskID, occ.TaskName, occ.Date, 0, model.NeutralReflection())
			return commands.Result{Message: fmt.Sprintf("marking done: %s", occ.TaskName)}, nil
		},
		Tick: func(a commands.TickArgs) (commands.Result, error) {
			for _, h := range m.Day.Habits {
				if strings.EqualFold(h.Name, a.Habit) {
					followUp = m.tickHabitCmd(h.HabitID, h.Name, m.Day.Date, model.NeutralReflection())
					return commands.Result{Message: fmt.Sprintf("ticking habit: %s", h.Name)}, nil
				}
			}
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no habit named %q", a.Habit)}
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			switch {
			case a.Today:
				m.ViewDate = time.Time{}
				followUp = m.refreshDayCmd()
				return commands.Result{Message: "showing today"}, nil
			case a.Delta != 0:
				base := m.ViewDate
				if base.IsZero() {
					base = m.Day.Date
				}
				if base.IsZero() {
					base = time.Now().UTC()
				}
				m.ViewDate = base.AddDate(0, 0, a.Delta)
				followUp = m.refreshDayCmd()
				return commands.Result{Message: fmt.Sprintf("showing %s", m.ViewDate.Format("2006-01-02"))}, nil
			default:
				m.ViewDate = a.Date
				followUp = m.refreshDayCmd()
				return commands.Result{Message: fmt.Sprintf("showing %s", a.Date.Format("2006-01-02"))}, nil
			}
		},
		Offset: func(a commands.OffsetArgs) (commands.Result, error) {
			m.UTCOffset = a.Hours
			m.persistPrefsQuietly()
			followUp = m.refreshDayCmd()
			return commands.Result{Message: fmt.Sprintf("utc offset set to %+d", a.Hours)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	m.notify("Command", res.Message, "info")
	return m, followUp
}
