package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# Hearline — Sessions

Paginated directory of platform sessions. The search filters the loaded
page only (pagination is server-side).

## Keys

| Key | Action |
| --- | ------ |
| / | search (user, listener, or scheduled date) |
| ← / → | previous / next page |
| 1–9 | jump to page |
| enter, e | edit the meeting link |
| o | copy the meeting link |
| r | reload the current page |
| ? | toggle this help |
| q | quit |

Dates match the ` + "`Jan 2, 2006`" + ` format shown in the list.
`

var (
	helpRendererMu sync.Mutex
	// Cache by wrap width; creating a renderer with auto-style can block on
	// terminal queries, so we pin a standard style.
	helpRendered = map[int]string{}
)

func renderHelpMarkdown(width int) string {
	if width < 20 {
		width = 20
	}
	if width > 80 {
		width = 80
	}

	helpRendererMu.Lock()
	defer helpRendererMu.Unlock()
	if out, ok := helpRendered[width]; ok {
		return out
	}

	style := "light"
	if lipgloss.HasDarkBackground() {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		// Not WithAutoStyle: it can block waiting on terminal queries.
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	helpRendered[width] = out
	return out
}

func (m appModel) renderHelp() string {
	body := renderHelpMarkdown(m.width - 4)
	footer := styleMuted().Render("esc/q/?: close")
	return strings.TrimRight(body, "\n") + "\n\n" + footer
}
