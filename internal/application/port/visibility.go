package port

// VisibilityObserver notifies when a thumbnail slot scrolls into the visible
// part of the preview strip. It generalizes an intersection observer.
//
// Observe must fire onVisible immediately if the slot is already visible.
// Callbacks run on the caller's goroutine and outside coordinator locks.
type VisibilityObserver interface {
	Observe(page int, onVisible func())
	Unobserve(page int)
	// Disconnect drops every observation.
	Disconnect()
}

// StripScroller is implemented by observers that also track the strip's
// scroll position. The strip returns to its first slot when the shown
// document changes.
type StripScroller interface {
	ResetScroll()
}
