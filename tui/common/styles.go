package common

import "github.com/charmbracelet/lipgloss"

var (
	// AppTitleStyle styles the application title in the header.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0A7AFF"))

	// BreadcrumbStyle styles the view titles next to the app title.
	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8AADF4"))

	// AuthorStyle styles display names.
	AuthorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DC4E4"))

	// HandleStyle styles @handles next to display names.
	HandleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8E8E8E")).
			Faint(true)

	// TimestampStyle styles timestamps.
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// ContentStyle styles post text.
	ContentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5"))

	// MetadataStyle styles counts and other secondary details.
	MetadataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// LikeActiveStyle highlights a post the user has liked.
	LikeActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// RepostActiveStyle highlights a post the user has reposted.
	RepostActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#A6DA95")).
				Bold(true)

	// SelectedStyle highlights the selected post card.
	SelectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#0A7AFF")).
			Padding(0, 1)

	// UnselectedStyle gives other cards a subtle greyed-out border.
	UnselectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	// AnchorStyle marks the post a thread is centered on when not selected.
	AnchorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8AADF4")).
			Padding(0, 1)

	// QuoteStyle frames an embedded quoted post.
	QuoteStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5B6078")).
			Padding(0, 1)

	// DimStyle is used for placeholders and hints.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true)

	// NotificationSelectedStyle marks the selected notification row.
	NotificationSelectedStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("#0A7AFF")).
					Bold(true)

	// UnreadStyle marks unread notifications.
	UnreadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5A97F")).
			Bold(true)

	// LiveStyle shows the live-update connection status.
	LiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95"))

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// ConfirmStyle styles the delete confirmation prompt.
	ConfirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// ErrorStyle styles error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// SuccessStyle styles success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true)
)
