package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/skyline-tui/skyline/domain"
	"github.com/skyline-tui/skyline/tui/common"
)

// View renders the composer for the active mode.
func (m Model) View() string {
	switch m.mode {
	case editorMode:
		return common.StatusBarStyle.Render(m.status)

	case inlineMode:
		var b strings.Builder
		title := "New post"
		if m.reply != nil {
			title = "Reply to @" + m.replyingTo
		}
		b.WriteString(common.AppTitleStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(m.textarea.View())
		b.WriteString("\n")

		if m.status != "" {
			b.WriteString(common.ErrorStyle.Render(m.status))
		} else {
			b.WriteString(common.StatusBarStyle.Render(
				fmt.Sprintf("ctrl+d: post • esc: cancel • %d/%d chars",
					utf8.RuneCountInString(m.textarea.Value()), domain.MaxPostLength),
			))
		}
		return b.String()
	}
	return ""
}
