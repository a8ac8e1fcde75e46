package api

import "github.com/bnema/tooldeck/internal/domain/entity"

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TabInfo describes one open tab.
type TabInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CurrentPage int     `json:"current_page"`
	TotalPages  int     `json:"total_pages"`
	Scale       float64 `json:"scale"`
	ZoomPercent int     `json:"zoom_percent"`
	Active      bool    `json:"active"`
}

// TabsResponse lists the session.
type TabsResponse struct {
	Tabs        []TabInfo `json:"tabs"`
	ActiveTabID string    `json:"active_tab_id,omitempty"`
}

// ViewStateResponse is the active tab's view.
type ViewStateResponse struct {
	TabID        string  `json:"tab_id"`
	CurrentPage  int     `json:"current_page"`
	TotalPages   int     `json:"total_pages"`
	Scale        float64 `json:"scale"`
	ZoomPercent  int     `json:"zoom_percent"`
	CanZoomIn    bool    `json:"can_zoom_in"`
	CanZoomOut   bool    `json:"can_zoom_out"`
	ScrollOffset float64 `json:"scroll_offset"`
	Rendered     []int   `json:"rendered_pages"`
}

// OpenFailure reports one file that could not be opened.
type OpenFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// OpenResponse is the result of a multi-file upload.
type OpenResponse struct {
	Opened   []string      `json:"opened"`
	Failures []OpenFailure `json:"failures"`
}

// ViewportRequest reports main view geometry. Absent fields are unchanged.
type ViewportRequest struct {
	ScrollTop *float64 `json:"scroll_top,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Height    *float64 `json:"height,omitempty"`
}

// StripWindowRequest reports the visible part of the thumbnail strip.
type StripWindowRequest struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// ThumbnailInfo describes one strip slot.
type ThumbnailInfo struct {
	Page     int  `json:"page"`
	Rendered bool `json:"rendered"`
	Active   bool `json:"active"`
}

// ThumbnailsResponse describes the strip.
type ThumbnailsResponse struct {
	Expanded bool            `json:"expanded"`
	Slots    []ThumbnailInfo `json:"slots"`
}

func tabInfo(t entity.Tab, active entity.TabID) TabInfo {
	return TabInfo{
		ID:          string(t.ID),
		Name:        t.Title(),
		CurrentPage: t.CurrentPage,
		TotalPages:  t.TotalPages,
		Scale:       t.Scale,
		ZoomPercent: entity.ScalePercentage(t.Scale),
		Active:      t.ID == active,
	}
}
