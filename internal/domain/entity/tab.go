package entity

import (
	"fmt"
	"time"
)

// TabID uniquely identifies a tab. IDs are never reused within a run.
type TabID string

// NewTabID formats the id for the n-th tab of a session.
func NewTabID(seq uint64) TabID {
	return TabID(fmt.Sprintf("tab-%d", seq))
}

// Tab holds one open document and its independent view state.
// The document handle itself is owned by the session coordinator.
type Tab struct {
	ID          TabID
	Name        string      // Display name (usually the file name)
	Fingerprint Fingerprint // Content hash of the document bytes
	TotalPages  int         // Fixed at creation, >= 1
	CurrentPage int         // 1-indexed
	Scale       float64
	// ScrollOffset is the last known vertical offset of the main view, in
	// content pixels at the tab's current scale. Nil until the tab was scrolled.
	ScrollOffset *float64
	CreatedAt    time.Time
}

// NewTab creates a tab positioned on the first page at default scale.
func NewTab(id TabID, name string, totalPages int) *Tab {
	if totalPages < 1 {
		totalPages = 1
	}
	return &Tab{
		ID:          id,
		Name:        name,
		TotalPages:  totalPages,
		CurrentPage: 1,
		Scale:       ScaleDefault,
		CreatedAt:   time.Now(),
	}
}

// Title returns the display title for the tab.
func (t *Tab) Title() string {
	if t.Name != "" {
		return t.Name
	}
	return "Untitled"
}

// ClampPage constrains n to the tab's page range.
func (t *Tab) ClampPage(n int) int {
	return ClampPage(n, t.TotalPages)
}

// ViewState returns a snapshot of the tab's view state.
func (t *Tab) ViewState() ViewState {
	vs := ViewState{
		TabID:       t.ID,
		CurrentPage: t.CurrentPage,
		TotalPages:  t.TotalPages,
		Scale:       t.Scale,
	}
	if t.ScrollOffset != nil {
		vs.ScrollOffset = *t.ScrollOffset
	}
	return vs
}

// Apply merges a partial update into the tab. Page and scale are clamped to
// their valid ranges. Identity and TotalPages are never touched.
// Returns true if any field changed.
func (t *Tab) Apply(u ViewStateUpdate) bool {
	changed := false
	if u.CurrentPage != nil {
		if p := t.ClampPage(*u.CurrentPage); p != t.CurrentPage {
			t.CurrentPage = p
			changed = true
		}
	}
	if u.Scale != nil {
		if s := ClampScale(*u.Scale); s != t.Scale {
			t.Scale = s
			changed = true
		}
	}
	if u.ScrollOffset != nil {
		offset := max(0, *u.ScrollOffset)
		if t.ScrollOffset == nil || *t.ScrollOffset != offset {
			t.ScrollOffset = &offset
			changed = true
		}
	}
	return changed
}

// TabList manages an insertion-ordered collection of tabs.
type TabList struct {
	Tabs []*Tab
	// ActiveTabID is a weak reference into Tabs; empty when no tab is active.
	ActiveTabID TabID
}

// NewTabList creates an empty tab list.
func NewTabList() *TabList {
	return &TabList{
		Tabs: make([]*Tab, 0),
	}
}

// Add appends a tab to the list. The first tab added becomes active.
func (tl *TabList) Add(tab *Tab) {
	tl.Tabs = append(tl.Tabs, tab)
	if tl.ActiveTabID == "" {
		tl.ActiveTabID = tab.ID
	}
}

// Remove removes a tab by ID. When the removed tab was active, the first
// remaining tab in insertion order becomes active, or none if the list is empty.
func (tl *TabList) Remove(id TabID) bool {
	for i, tab := range tl.Tabs {
		if tab.ID != id {
			continue
		}
		tl.Tabs = append(tl.Tabs[:i], tl.Tabs[i+1:]...)
		if tl.ActiveTabID == id {
			tl.ActiveTabID = ""
			if len(tl.Tabs) > 0 {
				tl.ActiveTabID = tl.Tabs[0].ID
			}
		}
		return true
	}
	return false
}

// Find returns a tab by ID.
func (tl *TabList) Find(id TabID) *Tab {
	for _, tab := range tl.Tabs {
		if tab.ID == id {
			return tab
		}
	}
	return nil
}

// ActiveTab returns the currently active tab.
func (tl *TabList) ActiveTab() *Tab {
	if tl.ActiveTabID == "" {
		return nil
	}
	return tl.Find(tl.ActiveTabID)
}

// Count returns the number of tabs.
func (tl *TabList) Count() int {
	return len(tl.Tabs)
}

// IsEmpty reports whether no tab is open.
func (tl *TabList) IsEmpty() bool {
	return len(tl.Tabs) == 0
}

// IDs returns tab ids in insertion order.
func (tl *TabList) IDs() []TabID {
	ids := make([]TabID, len(tl.Tabs))
	for i, tab := range tl.Tabs {
		ids[i] = tab.ID
	}
	return ids
}

// IndexOf returns the position of a tab, or -1.
func (tl *TabList) IndexOf(id TabID) int {
	for i, tab := range tl.Tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}
