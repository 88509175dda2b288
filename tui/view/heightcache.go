package view

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/skyline-tui/skyline/domain"
)

// Row and column budgets of a rendered post card.
const (
	// CardPadding is the columns a card spends on borders and padding.
	CardPadding = 4
	// QuoteInset is the extra columns a quote box spends inside a card.
	QuoteInset = 4
	// ImageRows is the fixed height of an image block.
	ImageRows = 15
	// IndentWidth is the columns per thread indent level.
	IndentWidth = 2

	cardChrome  = 4 // borders, header, stats
	quoteChrome = 4 // quote header, quote stats, quote borders

	// NotificationHeight is the fixed height of a notification row.
	NotificationHeight = 3
	// ProfileHeaderHeight is the height of the profile drawn above an author feed.
	ProfileHeaderHeight = 8
	// DefaultItemHeight is assumed for items that have not been measured.
	DefaultItemHeight = 6
)

// Wrap breaks text into lines of at most width columns, at word boundaries
// where possible.
func Wrap(text string, width int) []string {
	width = max(width, 1)
	return strings.Split(wrap.String(wordwrap.String(text, width), width), "\n")
}

// WrappedLineCount is the number of rows text occupies at width, at least 1.
func WrappedLineCount(text string, width int) int {
	return max(len(Wrap(text, width)), 1)
}

// PostHeight is the number of rows a post card occupies at the given viewport width.
func PostHeight(p domain.Post, width int) int {
	rows := cardChrome + WrappedLineCount(p.Text, width-CardPadding)
	if p.HasImages() {
		rows += ImageRows
	}
	if q := p.Quote; q != nil {
		rows += quoteChrome + WrappedLineCount(q.Text, width-CardPadding-QuoteInset)
		if len(q.Images) > 0 {
			rows += ImageRows
		}
	}
	return rows
}

// Measure computes the row height of an item at a viewport width.
type Measure func(item domain.Item, width int) int

type heightEntry struct {
	rows  int
	width int
}

// HeightCache memoizes item heights by uri. An entry remembers the width it
// was measured at and is recomputed when asked for a different width.
type HeightCache struct {
	measure Measure
	entries map[string]heightEntry
}

// NewHeightCache creates an empty cache that measures with m.
func NewHeightCache(m Measure) *HeightCache {
	return &HeightCache{measure: m, entries: make(map[string]heightEntry)}
}

// HeightOf returns the height of item at width, measuring it on a miss.
func (c *HeightCache) HeightOf(item domain.Item, width int) int {
	uri := item.ItemURI()
	if e, ok := c.entries[uri]; ok && e.width == width {
		return e.rows
	}
	rows := c.measure(item, width)
	c.entries[uri] = heightEntry{rows: rows, width: width}
	return rows
}

// Lookup returns the cached height for uri, at whatever width it was measured.
func (c *HeightCache) Lookup(uri string) (int, bool) {
	e, ok := c.entries[uri]
	return e.rows, ok
}

// Invalidate drops the entry for uri.
func (c *HeightCache) Invalidate(uri string) {
	delete(c.entries, uri)
}

// Clear drops every entry.
func (c *HeightCache) Clear() {
	clear(c.entries)
}

// Len is the number of cached entries.
func (c *HeightCache) Len() int {
	return len(c.entries)
}
