package entity

import "errors"

var (
	// ErrDecode is returned when raw bytes cannot be opened as a document.
	ErrDecode = errors.New("document decode failed")
	// ErrPage is returned when a page cannot be loaded from a document.
	ErrPage = errors.New("page load failed")
	// ErrRender is returned when a loaded page fails to rasterize.
	ErrRender = errors.New("page render failed")
	// ErrUnknownTab marks operations addressed to a tab that is not open.
	// Coordinators treat it as a no-op and never surface it.
	ErrUnknownTab = errors.New("unknown tab")
	// ErrNoActiveTab is returned by view operations when the session is empty.
	ErrNoActiveTab = errors.New("no active tab")
)
