package view

import "github.com/skyline-tui/skyline/domain"

// Thread shows the ancestor chain of an anchor post followed by its direct
// replies. It holds every fetched post and exposes only the visible ones.
type Thread struct {
	itemList[domain.Post]
	anchor string
	all    []domain.Post
	rel    Relationships
	parent domain.ParentState
}

// NewThread builds a thread list from a fetched tree with the anchor selected.
func NewThread(tree domain.ThreadTree) *Thread {
	t := &Thread{
		anchor: tree.Anchor.URI,
		all:    tree.Posts(),
		parent: tree.Parent,
	}
	t.itemList = newItemList[domain.Post](t.measure)
	t.recompute()
	if i := t.indexOf(t.anchor); i >= 0 {
		t.cursor.Selected = i
	}
	return t
}

func (t *Thread) Kind() Kind { return KindThread }

func (t *Thread) Title() string {
	for _, p := range t.all {
		if p.URI == t.anchor {
			return "Thread by @" + p.Author.Handle
		}
	}
	return "Thread"
}

// Anchor is the uri of the post the thread is centered on.
func (t *Thread) Anchor() string { return t.anchor }

// ParentState reports whether the anchor's parent could be loaded.
func (t *Thread) ParentState() domain.ParentState { return t.parent }

// Indent is the indent level of a visible post.
func (t *Thread) Indent(uri string) int { return t.rel.Indent[uri] }

// IsVisible reports whether uri is part of the displayed thread.
func (t *Thread) IsVisible(uri string) bool { return t.rel.Visible[uri] }

// Relationships returns the current layout.
func (t *Thread) Relationships() Relationships { return t.rel }

// CanViewThread reports whether opening uri as a thread would show something
// new. Opening the anchor again would only duplicate this view.
func (t *Thread) CanViewThread(uri string) bool { return uri != t.anchor }

// AddItem inserts a post fetched after the thread was built, e.g. a reply the
// user just wrote. It returns false if the post is already present.
func (t *Thread) AddItem(p domain.Post) bool {
	if t.indexAll(p.URI) >= 0 {
		return false
	}
	t.all = append(t.all, p)
	t.recompute()
	return true
}

func (t *Thread) UpdateItem(item domain.Item) bool {
	p, ok := item.(domain.Post)
	if !ok {
		return false
	}
	i := t.indexAll(p.URI)
	if i < 0 {
		return false
	}
	reparented := t.all[i].ParentURI() != p.ParentURI()
	t.all[i] = p
	if reparented {
		t.recompute()
		return true
	}
	t.itemList.UpdateItem(p)
	return true
}

func (t *Thread) RemoveItem(uri string) bool {
	i := t.indexAll(uri)
	if i < 0 {
		return false
	}
	t.all = append(t.all[:i], t.all[i+1:]...)
	t.recompute()
	return true
}

func (t *Thread) indexAll(uri string) int {
	for i, p := range t.all {
		if p.URI == uri {
			return i
		}
	}
	return -1
}

// recompute rederives the layout and the visible items, keeping the selection
// on the same post when it is still shown.
func (t *Thread) recompute() {
	var selected string
	if it, ok := t.SelectedItem(); ok {
		selected = it.ItemURI()
	}

	t.rel = ComputeRelationships(t.anchor, t.all)
	visible := make([]domain.Post, 0, len(t.all))
	for _, p := range t.all {
		if t.rel.Visible[p.URI] {
			visible = append(visible, p)
		}
	}
	t.items = visible

	// Indents may have moved, and the measure depends on them.
	t.heights.Clear()
	t.EnsureHeights(t.width)

	if selected != "" {
		if i := t.indexOf(selected); i >= 0 {
			t.cursor.Selected = i
		}
	}
	t.cursor.EnsureVisible(len(t.items), t.HeightAt, t.lead)
}

func (t *Thread) measure(item domain.Item, width int) int {
	p, ok := item.(domain.Post)
	if !ok {
		return DefaultItemHeight
	}
	return PostHeight(p, width-IndentWidth*t.rel.Indent[p.URI])
}
