package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// AppData is one full frame: the plan pane and the detail pane side by side
// under a dated header, then the status line and the reminder/summary strip.
type AppData struct {
	Header        string
	LeftPane      string
	RightPane     string
	StatusLine    string
	StatusIsError bool
	Footer        string
	Notification  string
}

// paneWidth fits two panes plus borders inside a 128-column terminal, the
// narrowest layout the dashboard targets.
const paneWidth = 62

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Width(paneWidth)
	stripStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Faint(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

func RenderApp(data AppData) string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(data.LeftPane),
		paneStyle.Render(data.RightPane),
	)

	status := okStyle.Render(data.StatusLine)
	if data.StatusIsError {
		status = errStyle.Render(data.StatusLine)
	}

	frame := []string{
		headerStyle.Render(data.Header),
		panes,
		status,
	}
	if data.Notification != "" {
		frame = append(frame, stripStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		frame = append(frame, footerStyle.Render(data.Footer))
	}
	return strings.Join(frame, "\n")
}

// RenderMarkdown formats a personal message for the detail viewport. The
// wrap width matches the pane interior; on renderer failure the raw text is
// shown rather than nothing.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(paneWidth-4),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
