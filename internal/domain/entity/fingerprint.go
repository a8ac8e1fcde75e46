package entity

import "time"

// Fingerprint identifies document content independently of its file name.
type Fingerprint string

// Short returns the first 12 characters, for logs and listings.
func (f Fingerprint) Short() string {
	if len(f) <= 12 {
		return string(f)
	}
	return string(f[:12])
}

// RememberedView is the last view state recorded for a document, keyed by
// content fingerprint so reopening the same bytes restores it.
type RememberedView struct {
	Fingerprint Fingerprint
	Name        string
	Page        int
	Scale       float64
	UpdatedAt   time.Time
}

// NewRememberedView captures a tab's view for later restore.
func NewRememberedView(tab *Tab) *RememberedView {
	return &RememberedView{
		Fingerprint: tab.Fingerprint,
		Name:        tab.Name,
		Page:        tab.CurrentPage,
		Scale:       tab.Scale,
		UpdatedAt:   time.Now(),
	}
}
