// Package render draws board snapshots on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/kitchen-display/internal/board"
)

const (
	// clearScreen moves the cursor home and clears the terminal.
	clearScreen = "\x1b[H\x1b[2J"
	// customerWidth is the column width of the customer name.
	customerWidth = 28
	// timerWidth is the column width of the countdown.
	timerWidth = 8
	// pendingTimer is shown before an order's first countdown.
	pendingTimer = "--:--"
)

// Terminal renders a full frame per call.
type Terminal struct {
	out io.Writer
	// clear prefixes each frame with a clear-screen sequence.
	clear bool

	title      lipgloss.Style
	normal     lipgloss.Style
	expiring   lipgloss.Style
	expired    lipgloss.Style
	unaccepted lipgloss.Style
	timer      lipgloss.Style
}

// NewTerminal creates a renderer writing to out. Styles degrade to plain
// text when out is not a color terminal.
func NewTerminal(out io.Writer, clear bool) *Terminal {
	renderer := lipgloss.NewRenderer(out)

	return &Terminal{
		out:        out,
		clear:      clear,
		title:      renderer.NewStyle().Bold(true).Underline(true),
		normal:     renderer.NewStyle().Width(customerWidth),
		expiring:   renderer.NewStyle().Width(customerWidth).Bold(true).Foreground(lipgloss.Color("214")),
		expired:    renderer.NewStyle().Width(customerWidth).Bold(true).Foreground(lipgloss.Color("196")),
		unaccepted: renderer.NewStyle().Width(customerWidth).Faint(true).Italic(true),
		timer:      renderer.NewStyle().Width(timerWidth).Align(lipgloss.Right),
	}
}

// Render writes one frame with every visible order.
func (t *Terminal) Render(views []board.View) error {
	var frame strings.Builder

	if t.clear {
		frame.WriteString(clearScreen)
	}

	frame.WriteString(t.title.Render("ORDERS"))
	frame.WriteByte('\n')

	for i := range views {
		line, ok := t.line(&views[i])
		if !ok {
			continue
		}

		frame.WriteString(line)
		frame.WriteByte('\n')
	}

	if _, err := io.WriteString(t.out, frame.String()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}

// line renders one order, or reports false for hidden orders.
func (t *Terminal) line(v *board.View) (string, bool) {
	if v.Hidden {
		return "", false
	}

	style := t.normal

	switch {
	case v.Expiring:
		style = t.expiring
	case v.Expired:
		style = t.expired
	case v.Unaccepted:
		style = t.unaccepted
	}

	countdown := pendingTimer
	if v.TimerVisible {
		countdown = v.Timer.Label()
	}

	name := v.Order.CustomerName
	if name == "" {
		name = v.Order.Code
	}

	return style.Render(name) + t.timer.Render(countdown), true
}
