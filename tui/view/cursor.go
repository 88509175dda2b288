package view

// LookAhead is how close to the end of the loaded items the selection must
// come before the next page is requested.
const LookAhead = 5

// HeightFunc reports the row height of the item at index i.
type HeightFunc func(i int) int

// ScrollCursor tracks the selected item and the first drawn item of a list.
//
// Invariants: Offset <= Selected, and Selected < count when count > 0.
type ScrollCursor struct {
	Selected int
	Offset   int
	Viewport int // rows available to the list, updated on every layout
}

// ScrollDown selects the next item. Before moving, it advances Offset until
// the next item fits entirely in the viewport. lead is the number of rows
// drawn above the item at index 0 while Offset is 0.
func (c *ScrollCursor) ScrollDown(count int, height HeightFunc, lead int) {
	if count == 0 || c.Selected >= count-1 {
		return
	}
	next := c.Selected + 1
	c.reveal(next, height, lead)
	c.Selected = next
}

// ScrollUp selects the previous item, snapping Offset up to it if needed.
func (c *ScrollCursor) ScrollUp() {
	if c.Selected == 0 {
		return
	}
	c.Selected--
	if c.Selected < c.Offset {
		c.Offset = c.Selected
	}
}

// EnsureVisible clamps the cursor to count items and scrolls the selected
// item fully into view. Used after resizes and removals.
func (c *ScrollCursor) EnsureVisible(count int, height HeightFunc, lead int) {
	c.Clamp(count)
	if count == 0 {
		return
	}
	c.reveal(c.Selected, height, lead)
}

// Clamp restores the invariants for a list of count items.
func (c *ScrollCursor) Clamp(count int) {
	if count == 0 {
		c.Selected, c.Offset = 0, 0
		return
	}
	c.Selected = min(max(c.Selected, 0), count-1)
	c.Offset = min(max(c.Offset, 0), c.Selected)
}

// NearEnd reports whether the selection is within LookAhead items of the end.
func (c *ScrollCursor) NearEnd(count int) bool {
	return c.Selected >= count-LookAhead
}

// LastVisible returns the index of the last item that fits entirely in
// viewport rows, starting at Offset. The item at Offset always counts as
// visible, even when it is taller than the viewport.
func (c *ScrollCursor) LastVisible(count int, height HeightFunc, lead, viewport int) int {
	if count == 0 {
		return 0
	}
	total := 0
	if c.Offset == 0 {
		total = lead
	}
	last := c.Offset
	for i := c.Offset; i < count; i++ {
		h := height(i)
		if total+h > viewport {
			break
		}
		total += h
		last = i
	}
	return last
}

// HeightBefore sums the heights of the items above Offset.
func (c *ScrollCursor) HeightBefore(height HeightFunc, lead int) int {
	total := 0
	if c.Offset > 0 {
		total = lead
	}
	for i := 0; i < c.Offset; i++ {
		total += height(i)
	}
	return total
}

// reveal advances Offset, never past target, until target fits in the viewport.
// An unknown viewport (zero rows) leaves Offset alone.
func (c *ScrollCursor) reveal(target int, height HeightFunc, lead int) {
	if c.Viewport <= 0 {
		return
	}
	if target < c.Offset {
		c.Offset = target
		return
	}
	y := 0
	if c.Offset == 0 {
		y = lead
	}
	for i := c.Offset; i < target; i++ {
		y += height(i)
	}
	h := height(target)
	for y+h > c.Viewport && c.Offset < target {
		y -= height(c.Offset)
		if c.Offset == 0 {
			y -= lead
		}
		c.Offset++
	}
}
