// Package render draws the current content list into a fixed number of
// terminal rows, using the heights cached by the view package.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/skyline-tui/skyline/domain"
	"github.com/skyline-tui/skyline/tui/common"
	"github.com/skyline-tui/skyline/tui/view"
)

// ThumbnailRows is the height of a thumbnail inside an image block; the
// remaining row of the block is its caption.
const ThumbnailRows = view.ImageRows - 1

// Images supplies rendered thumbnails without blocking.
type Images interface {
	Thumbnail(url string, w, h int) (string, bool)
}

// Options controls how a list is drawn.
type Options struct {
	Width      int
	Height     int
	ShowImages bool
	Images     Images
	Self       string // DID of the logged-in user
	Now        time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// ImageRequest is a thumbnail the renderer wanted but did not have.
type ImageRequest struct {
	URL  string
	W, H int
}

// List draws the visible window of l, starting at its scroll offset, into
// exactly opts.Height rows. An item that only partly fits at the bottom is
// clipped; the cursor guarantees the selected item never is.
func List(l view.ContentList, opts Options) string {
	if opts.Height <= 0 {
		return ""
	}
	c := l.Cursor()
	var blocks []string
	left := opts.Height
	if c.Offset == 0 && l.Lead() > 0 {
		rows := min(l.Lead(), left)
		blocks = append(blocks, common.FitLines(leadBlock(l, opts), rows))
		left -= rows
	}
	if l.Len() == 0 {
		if left > 0 {
			blocks = append(blocks, emptyMessage(l))
		}
		return common.FitLines(strings.Join(blocks, "\n"), opts.Height)
	}
	for i := c.Offset; i < l.Len() && left > 0; i++ {
		rows := l.HeightAt(i)
		block := Item(l, i, i == c.Selected, opts)
		if rows > left {
			block = common.FitLines(block, left)
			rows = left
		}
		blocks = append(blocks, block)
		left -= rows
	}
	return common.FitLines(strings.Join(blocks, "\n"), opts.Height)
}

// Item draws item i of l at its cached height.
func Item(l view.ContentList, i int, selected bool, opts Options) string {
	rows := l.HeightAt(i)
	switch it := l.ItemAt(i).(type) {
	case domain.Post:
		indent := 0
		anchor := false
		if th, ok := l.(*view.Thread); ok {
			indent = th.Indent(it.URI) * view.IndentWidth
			anchor = it.URI == th.Anchor()
		}
		card := PostCard(it, opts.Width-indent, selected, anchor, opts)
		return common.IndentLines(common.FitLines(card, rows), indent)
	case domain.Notification:
		return common.FitLines(NotificationRow(it, opts.Width, selected, opts.now()), rows)
	default:
		return common.FitLines("", rows)
	}
}

func leadBlock(l view.ContentList, opts Options) string {
	if f, ok := l.(*view.AuthorFeed); ok {
		return ProfileHeader(f.Profile(), opts.Width)
	}
	return ""
}

func emptyMessage(l view.ContentList) string {
	switch l.Kind() {
	case view.KindNotifications:
		return common.DimStyle.Render("  No notifications yet.")
	case view.KindAuthorFeed:
		return common.DimStyle.Render("  No posts yet.")
	default:
		return common.DimStyle.Render("  Nothing to show yet.")
	}
}

// PostCard draws a bordered post card width columns wide. Its height is
// view.PostHeight(p, width).
func PostCard(p domain.Post, width int, selected, anchor bool, opts Options) string {
	cw := max(width-view.CardPadding, 1)
	var lines []string
	lines = append(lines, postHeader(p, cw, opts))
	for _, ln := range view.Wrap(p.Text, cw) {
		lines = append(lines, common.ContentStyle.Render(ln))
	}
	if p.HasImages() {
		lines = append(lines, ImageBlock(p.Images, cw, opts))
	}
	if p.Quote != nil {
		lines = append(lines, QuoteBlock(*p.Quote, cw, opts))
	}
	lines = append(lines, postStats(p, cw))

	style := common.UnselectedStyle
	switch {
	case selected:
		style = common.SelectedStyle
	case anchor:
		style = common.AnchorStyle
	}
	body := common.ClampLinesToWidth(strings.Join(lines, "\n"), cw)
	return style.Width(max(width-2, 2)).Render(body)
}

func postHeader(p domain.Post, width int, opts Options) string {
	own := opts.Self != "" && p.Author.DID == opts.Self
	name := common.AuthorStyleFor(p.Author.Handle, own).Render(p.Author.Name())
	parts := []string{name, common.HandleStyle.Render("@" + p.Author.Handle)}
	if ts := common.RelativeTime(p.CreatedAt, opts.now()); ts != "" {
		parts = append(parts, common.TimestampStyle.Render("· "+ts))
	}
	if p.RepostedBy != "" {
		parts = append(parts, common.MetadataStyle.Render("🔁 @"+p.RepostedBy))
	}
	if p.IsReply() {
		parts = append(parts, common.MetadataStyle.Render("↩ reply"))
	}
	return ansi.Truncate(strings.Join(parts, " "), width, "…")
}

func postStats(p domain.Post, width int) string {
	like := common.MetadataStyle.Render(fmt.Sprintf("♡ %d", p.LikeCount))
	if p.Liked {
		like = common.LikeActiveStyle.Render(fmt.Sprintf("♥ %d", p.LikeCount))
	}
	repost := common.MetadataStyle.Render(fmt.Sprintf("🔁 %d", p.RepostCount))
	if p.Reposted {
		repost = common.RepostActiveStyle.Render(fmt.Sprintf("🔁 %d", p.RepostCount))
	}
	replies := common.MetadataStyle.Render(fmt.Sprintf("💬 %d", p.ReplyCount))
	return ansi.Truncate(replies+"  "+repost+"  "+like, width, "")
}

// QuoteBlock draws an embedded post inside a card whose content is width
// columns wide.
func QuoteBlock(q domain.QuotedPost, width int, opts Options) string {
	cw := max(width-view.QuoteInset, 1)
	header := common.AuthorStyleFor(q.Author.Handle, false).Render(q.Author.Name()) + " " +
		common.HandleStyle.Render("@"+q.Author.Handle)
	if ts := common.RelativeTime(q.CreatedAt, opts.now()); ts != "" {
		header += " " + common.TimestampStyle.Render("· "+ts)
	}
	lines := []string{ansi.Truncate(header, cw, "…")}
	for _, ln := range view.Wrap(q.Text, cw) {
		lines = append(lines, common.ContentStyle.Render(ln))
	}
	if len(q.Images) > 0 {
		lines = append(lines, ImageBlock(q.Images, cw, opts))
	}
	lines = append(lines, common.MetadataStyle.Render(
		ansi.Truncate(fmt.Sprintf("💬 %d  🔁 %d  ♡ %d", q.ReplyCount, q.RepostCount, q.LikeCount), cw, "")))
	body := common.ClampLinesToWidth(strings.Join(lines, "\n"), cw)
	return common.QuoteStyle.Width(max(width-2, 2)).Render(body)
}

// ThumbnailSize is the size of the thumbnail drawn in an image block width
// columns wide.
func ThumbnailSize(width int) (w, h int) {
	return max(width/2, 4), ThumbnailRows
}

// ImageBlock draws the first image of a post as a thumbnail with its alt
// text beside it, followed by a caption row. It is always view.ImageRows
// rows tall.
func ImageBlock(images []domain.Image, width int, opts Options) string {
	if len(images) == 0 {
		return common.FitLines("", view.ImageRows)
	}
	first := images[0]
	tw, th := ThumbnailSize(width)

	var thumb string
	switch {
	case !opts.ShowImages:
		thumb = common.DimStyle.Render("[image hidden]")
	case opts.Images != nil:
		if s, ok := opts.Images.Thumbnail(first.ThumbURL, tw, th); ok {
			thumb = s
		} else {
			thumb = common.DimStyle.Render("Loading image...")
		}
	default:
		thumb = common.DimStyle.Render("Loading image...")
	}
	thumb = lipgloss.NewStyle().Width(tw).Render(common.FitLines(thumb, th))

	alt := first.Alt
	if strings.TrimSpace(alt) == "" {
		alt = "No alt text provided"
	}
	altWidth := max(width-tw-2, 1)
	altLines := append([]string{"📷"}, view.Wrap(alt, altWidth)...)
	altCol := common.DimStyle.Render(common.FitLines(strings.Join(altLines, "\n"), th))

	grid := lipgloss.JoinHorizontal(lipgloss.Top, thumb, "  ", altCol)
	caption := fmt.Sprintf("%d image", len(images))
	if len(images) != 1 {
		caption += "s"
	}
	if !opts.ShowImages {
		caption += " · press i to show"
	}
	return common.FitLines(grid, th) + "\n" + common.MetadataStyle.Render(caption)
}

// NotificationRow draws a notification in view.NotificationHeight rows.
func NotificationRow(n domain.Notification, width int, selected bool, now time.Time) string {
	marker := "  "
	if selected {
		marker = common.NotificationSelectedStyle.Render("┃ ")
	}
	first := n.Summary()
	if !n.IsRead {
		first += " " + common.UnreadStyle.Render("● New")
	}
	if ts := common.RelativeTime(n.IndexedAt, now); ts != "" {
		first += " " + common.TimestampStyle.Render("· "+ts)
	}
	second := n.Text
	if second == "" {
		second = n.ReasonSubject
	}
	second = common.DimStyle.Render(second)
	lines := []string{
		marker + ansi.Truncate(first, max(width-2, 1), "…"),
		marker + ansi.Truncate(second, max(width-2, 1), "…"),
		common.MetadataStyle.Render(strings.Repeat("─", max(width, 1))),
	}
	return strings.Join(lines, "\n")
}

// ProfileHeader draws the view.ProfileHeaderHeight rows above an author feed.
func ProfileHeader(p domain.Profile, width int) string {
	name := common.AuthorStyle.Render(p.Name()) + " " + common.HandleStyle.Render("@"+p.Handle)
	counts := common.MetadataStyle.Render(fmt.Sprintf("%d followers · %d following · %d posts",
		p.FollowersCount, p.FollowsCount, p.PostsCount))
	follow := common.DimStyle.Render("Not following · press f to follow")
	if p.Following() {
		follow = common.SuccessStyle.Render("✓ Following")
	}
	desc := view.Wrap(p.Description, max(width-2, 1))
	lines := []string{" " + name, " " + counts, " " + follow}
	for i := 0; i < 3; i++ {
		ln := ""
		if i < len(desc) {
			ln = " " + common.ContentStyle.Render(desc[i])
		}
		lines = append(lines, ln)
	}
	lines = append(lines, "", common.MetadataStyle.Render(strings.Repeat("─", max(width, 1))))
	return common.ClampLinesToWidth(common.FitLines(strings.Join(lines, "\n"), view.ProfileHeaderHeight), width)
}

// Header draws the title line with the breadcrumb of open views and the
// live-update status on the right.
func Header(titles []string, live string, width int) string {
	left := common.AppTitleStyle.Render("🦋 Skyline") + "  " +
		common.BreadcrumbStyle.Render(strings.Join(titles, " › "))
	right := ""
	if live != "" {
		right = common.LiveStyle.Render("● " + live)
	}
	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return ansi.Truncate(left, width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

// Position is the "selected/total" indicator of the status line.
func Position(l view.ContentList) string {
	if l.Len() == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", l.Cursor().Selected+1, l.Len())
}

// StatusLine draws msg on the left and the list position on the right.
func StatusLine(msg string, isErr bool, position string, width int) string {
	style := common.StatusBarStyle
	if isErr {
		style = common.ErrorStyle
	}
	left := style.Render(msg)
	right := common.StatusBarStyle.Render(position)
	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return ansi.Truncate(left, max(width, 1), "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

// PendingImages lists the thumbnails the visible window of l needs but
// imgs does not have yet.
func PendingImages(l view.ContentList, opts Options) []ImageRequest {
	if !opts.ShowImages || opts.Images == nil || l.Len() == 0 {
		return nil
	}
	var out []ImageRequest
	want := func(images []domain.Image, width int) {
		if len(images) == 0 || images[0].ThumbURL == "" {
			return
		}
		w, h := ThumbnailSize(width)
		if _, ok := opts.Images.Thumbnail(images[0].ThumbURL, w, h); !ok {
			out = append(out, ImageRequest{URL: images[0].ThumbURL, W: w, H: h})
		}
	}
	last := l.LastVisibleIndex(opts.Height)
	for i := l.Cursor().Offset; i <= last && i < l.Len(); i++ {
		p, ok := l.ItemAt(i).(domain.Post)
		if !ok {
			continue
		}
		width := opts.Width
		if th, ok := l.(*view.Thread); ok {
			width -= th.Indent(p.URI) * view.IndentWidth
		}
		cw := width - view.CardPadding
		want(p.Images, cw)
		if p.Quote != nil {
			want(p.Quote.Images, cw-view.QuoteInset)
		}
	}
	return out
}
