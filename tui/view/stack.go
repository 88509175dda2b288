package view

import "github.com/skyline-tui/skyline/domain"

// Stack is the navigation stack of content lists. The bottom is always the
// timeline and can never be popped.
//
// Every push and pop bumps the generation. Work started against one
// generation (a thread fetch, say) is discarded if it completes after the
// user has navigated elsewhere.
type Stack struct {
	views      []ContentList
	generation int
}

// NewStack creates a stack holding only root.
func NewStack(root *Timeline) *Stack {
	return &Stack{views: []ContentList{root}}
}

// Current is the list on top of the stack.
func (s *Stack) Current() ContentList { return s.views[len(s.views)-1] }

// Root is the timeline at the bottom of the stack.
func (s *Stack) Root() *Timeline { return s.views[0].(*Timeline) }

func (s *Stack) Len() int { return len(s.views) }

// Generation changes whenever the stack does.
func (s *Stack) Generation() int { return s.generation }

// Push makes l the current list.
func (s *Stack) Push(l ContentList) {
	s.views = append(s.views, l)
	s.generation++
}

// Pop removes the current list. It does nothing and returns false when only
// the timeline is left.
func (s *Stack) Pop() bool {
	if len(s.views) == 1 {
		return false
	}
	s.views[len(s.views)-1] = nil
	s.views = s.views[:len(s.views)-1]
	s.generation++
	return true
}

// Find returns the list with the given ID if it is still on the stack.
func (s *Stack) Find(id int) (ContentList, bool) {
	for _, v := range s.views {
		if v.ID() == id {
			return v, true
		}
	}
	return nil, false
}

// Titles lists the titles from bottom to top, for the breadcrumb.
func (s *Stack) Titles() []string {
	out := make([]string, len(s.views))
	for i, v := range s.views {
		out[i] = v.Title()
	}
	return out
}

// Each calls fn for every list, bottom first.
func (s *Stack) Each(fn func(ContentList)) {
	for _, v := range s.views {
		fn(v)
	}
}

// PostURIs returns the uris of the posts held by l, for refreshing their counts.
func PostURIs(l ContentList) []string {
	var out []string
	for i := 0; i < l.Len(); i++ {
		if p, ok := l.ItemAt(i).(domain.Post); ok {
			out = append(out, p.URI)
		}
	}
	return out
}
