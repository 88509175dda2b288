package view

import (
	"sync/atomic"

	"github.com/skyline-tui/skyline/domain"
)

// Kind identifies a list variant.
type Kind int

const (
	KindTimeline Kind = iota
	KindThread
	KindAuthorFeed
	KindNotifications
)

func (k Kind) String() string {
	switch k {
	case KindTimeline:
		return "Timeline"
	case KindThread:
		return "Thread"
	case KindAuthorFeed:
		return "Profile"
	case KindNotifications:
		return "Notifications"
	default:
		return "Unknown"
	}
}

// ContentList is the behavior shared by every scrollable list on the view stack.
// The set of implementations is closed: *Timeline, *Thread, *AuthorFeed and
// *Notifications.
type ContentList interface {
	// ID uniquely identifies the list for the lifetime of the process.
	ID() int
	Kind() Kind
	Title() string

	Len() int
	ItemAt(i int) domain.Item
	// HeightAt is the cached height of item i, or DefaultItemHeight if unmeasured.
	HeightAt(i int) int
	// Lead is the number of rows drawn above the first item while scrolled to the top.
	Lead() int
	Cursor() ScrollCursor

	// SetViewport measures items for width and keeps the selection visible in height rows.
	SetViewport(width, height int)
	EnsureHeights(width int)
	HeightBeforeOffset() int
	LastVisibleIndex(viewportHeight int) int

	ScrollDown()
	ScrollUp()
	NeedsMorePagination() bool

	SelectedItem() (domain.Item, bool)
	// UpdateItem replaces the item with the same uri in place; false if absent.
	UpdateItem(item domain.Item) bool
	// RemoveItem deletes the item with uri; false if absent.
	RemoveItem(uri string) bool
}

// Paginated is implemented by lists that load more items on demand.
type Paginated interface {
	ContentList
	// BeginPage marks a page request as in flight and returns its sequence
	// number and cursor. ok is false when a request is already running or
	// the list is exhausted.
	BeginPage() (seq int, cursor string, ok bool)
	// FailPage clears the in-flight flag for seq.
	FailPage(seq int)
}

var lastListID atomic.Int64

func nextListID() int { return int(lastListID.Add(1)) }

// itemList is the storage, cursor and height bookkeeping shared by all lists.
type itemList[T domain.Item] struct {
	id      int
	items   []T
	cursor  ScrollCursor
	heights *HeightCache
	width   int
	lead    int
}

func newItemList[T domain.Item](m Measure) itemList[T] {
	return itemList[T]{id: nextListID(), heights: NewHeightCache(m)}
}

func (l *itemList[T]) ID() int                  { return l.id }
func (l *itemList[T]) Len() int                 { return len(l.items) }
func (l *itemList[T]) ItemAt(i int) domain.Item { return l.items[i] }
func (l *itemList[T]) Lead() int                { return l.lead }
func (l *itemList[T]) Cursor() ScrollCursor     { return l.cursor }

// Items returns the backing slice; callers must not modify it.
func (l *itemList[T]) Items() []T { return l.items }

func (l *itemList[T]) HeightAt(i int) int {
	if h, ok := l.heights.Lookup(l.items[i].ItemURI()); ok {
		return h
	}
	return DefaultItemHeight
}

func (l *itemList[T]) SetViewport(width, height int) {
	l.EnsureHeights(width)
	l.cursor.Viewport = height
	l.cursor.EnsureVisible(len(l.items), l.HeightAt, l.lead)
}

func (l *itemList[T]) EnsureHeights(width int) {
	l.width = width
	if width <= 0 {
		return
	}
	for _, it := range l.items {
		l.heights.HeightOf(it, width)
	}
}

func (l *itemList[T]) HeightBeforeOffset() int {
	return l.cursor.HeightBefore(l.HeightAt, l.lead)
}

func (l *itemList[T]) LastVisibleIndex(viewportHeight int) int {
	return l.cursor.LastVisible(len(l.items), l.HeightAt, l.lead, viewportHeight)
}

func (l *itemList[T]) ScrollDown() {
	l.cursor.ScrollDown(len(l.items), l.HeightAt, l.lead)
}

func (l *itemList[T]) ScrollUp() {
	l.cursor.ScrollUp()
}

func (l *itemList[T]) NeedsMorePagination() bool {
	return l.cursor.NearEnd(len(l.items))
}

func (l *itemList[T]) SelectedItem() (domain.Item, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	return l.items[l.cursor.Selected], true
}

func (l *itemList[T]) indexOf(uri string) int {
	for i, it := range l.items {
		if it.ItemURI() == uri {
			return i
		}
	}
	return -1
}

func (l *itemList[T]) UpdateItem(item domain.Item) bool {
	v, ok := item.(T)
	if !ok {
		return false
	}
	i := l.indexOf(v.ItemURI())
	if i < 0 {
		return false
	}
	l.items[i] = v
	l.remeasure(v)
	return true
}

func (l *itemList[T]) RemoveItem(uri string) bool {
	i := l.indexOf(uri)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.heights.Invalidate(uri)
	if i < l.cursor.Selected {
		l.cursor.Selected--
	}
	if i < l.cursor.Offset {
		l.cursor.Offset--
	}
	l.cursor.EnsureVisible(len(l.items), l.HeightAt, l.lead)
	return true
}

// appendItems adds items whose uri is not present yet and returns how many were added.
func (l *itemList[T]) appendItems(items []T) int {
	seen := make(map[string]struct{}, len(l.items))
	for _, it := range l.items {
		seen[it.ItemURI()] = struct{}{}
	}
	added := 0
	for _, it := range items {
		uri := it.ItemURI()
		if _, dup := seen[uri]; dup {
			continue
		}
		seen[uri] = struct{}{}
		l.items = append(l.items, it)
		l.remeasure(it)
		added++
	}
	return added
}

// prepend inserts item at the top, keeping the current selection on the same item.
func (l *itemList[T]) prepend(item T) bool {
	if l.indexOf(item.ItemURI()) >= 0 {
		return false
	}
	hadItems := len(l.items) > 0
	l.items = append([]T{item}, l.items...)
	l.remeasure(item)
	if hadItems {
		l.cursor.Selected++
		if l.cursor.Offset > 0 {
			l.cursor.Offset++
		}
	}
	l.cursor.EnsureVisible(len(l.items), l.HeightAt, l.lead)
	return true
}

// replaceItems swaps in a fresh item set and scrolls back to the top.
func (l *itemList[T]) replaceItems(items []T) {
	l.items = nil
	l.heights.Clear()
	l.cursor.Selected, l.cursor.Offset = 0, 0
	l.appendItems(items)
}

func (l *itemList[T]) remeasure(item T) {
	l.heights.Invalidate(item.ItemURI())
	if l.width > 0 {
		l.heights.HeightOf(item, l.width)
	}
}

// pager tracks pagination state for lists backed by a cursor-paged endpoint.
type pager struct {
	next      string
	exhausted bool
	loading   bool
	seq       int
}

func (p *pager) BeginPage() (int, string, bool) {
	if p.loading || p.exhausted {
		return 0, "", false
	}
	p.loading = true
	p.seq++
	return p.seq, p.next, true
}

func (p *pager) FailPage(seq int) {
	if seq == p.seq {
		p.loading = false
	}
}

// Loading reports whether a page request is in flight.
func (p *pager) Loading() bool { return p.loading }

// NextCursor is the cursor the next page will be requested with.
func (p *pager) NextCursor() string { return p.next }

// finish records the result of request seq; stale results return false.
func (p *pager) finish(seq int, next string) bool {
	if seq != p.seq || !p.loading {
		return false
	}
	p.loading = false
	p.next = next
	p.exhausted = next == ""
	return true
}

// restart invalidates any in-flight request and starts a first-page request.
// The saved cursor stays until the request finishes, so a failed restart
// leaves pagination where it was.
func (p *pager) restart() int {
	p.seq++
	p.loading = true
	return p.seq
}
