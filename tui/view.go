package tui

import (
	"strings"

	"github.com/skyline-tui/skyline/tui/common"
	"github.com/skyline-tui/skyline/tui/render"
)

// View draws the header, the current list, the inline composer when open,
// the status line and the footer.
func (a App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return a.spinner.View() + " Loading..."
	}

	cur := a.stack.Current()
	var b strings.Builder
	b.WriteString(render.Header(a.stack.Titles(), a.live, a.width))
	b.WriteString("\n")

	rows := a.listHeight()
	if l, ok := cur.(interface{ Loading() bool }); ok && cur.Len() == 0 && l.Loading() {
		b.WriteString(common.FitLines("  "+a.spinner.View()+" Loading...", rows))
	} else {
		b.WriteString(render.List(cur, a.renderOptions()))
	}
	b.WriteString("\n")

	if a.composing && a.compose.IsInline() {
		b.WriteString(a.compose.View())
		b.WriteString("\n")
	}

	status, isErr := a.status, a.statusErr
	if a.composing && !a.compose.IsInline() {
		status, isErr = a.compose.View(), false
	}
	b.WriteString(render.StatusLine(status, isErr, render.Position(cur), a.width))
	b.WriteString("\n")
	b.WriteString(a.footer())
	return b.String()
}

func (a App) footer() string {
	if a.command.IsActive() {
		return common.ClampLinesToWidth(a.command.View(), a.width)
	}
	if a.showHelp {
		return common.FitLines(a.help.FullHelpView(a.keys.FullHelp()), a.footerRows())
	}
	return a.help.ShortHelpView(a.keys.ShortHelp())
}
