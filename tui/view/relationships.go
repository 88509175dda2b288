package view

import "github.com/skyline-tui/skyline/domain"

// Relationships is the derived layout of a thread: which posts are shown and
// how far each is indented.
type Relationships struct {
	Visible  map[string]bool
	Indent   map[string]int
	ParentOf map[string]string
}

// ComputeRelationships lays out posts around anchor. The anchor's ancestor
// chain is shown with the root at indent 0 and the anchor deepest; posts that
// reply directly to the anchor are shown one level deeper. Everything else
// stays hidden.
func ComputeRelationships(anchor string, posts []domain.Post) Relationships {
	r := Relationships{
		Visible:  make(map[string]bool),
		Indent:   make(map[string]int),
		ParentOf: make(map[string]string),
	}
	present := make(map[string]bool, len(posts))
	for _, p := range posts {
		present[p.URI] = true
		if parent := p.ParentURI(); parent != "" {
			r.ParentOf[p.URI] = parent
		}
	}
	if !present[anchor] {
		return r
	}

	chain := []string{anchor}
	for cur := anchor; ; {
		parent, ok := r.ParentOf[cur]
		if !ok || !present[parent] || contains(chain, parent) {
			break
		}
		chain = append(chain, parent)
		cur = parent
	}

	n := len(chain)
	for depth, uri := range chain {
		r.Visible[uri] = true
		r.Indent[uri] = n - depth - 1
	}

	replyIndent := r.Indent[anchor] + 1
	for _, p := range posts {
		if p.URI != anchor && r.ParentOf[p.URI] == anchor {
			r.Visible[p.URI] = true
			r.Indent[p.URI] = replyIndent
		}
	}
	return r
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
