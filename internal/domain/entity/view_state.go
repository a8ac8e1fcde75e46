package entity

// ViewState is a read-only snapshot of a tab's view, published to observers.
type ViewState struct {
	TabID        TabID
	CurrentPage  int
	TotalPages   int
	Scale        float64
	ScrollOffset float64
}

// Percentage returns the zoom level as a rounded percentage.
func (v ViewState) Percentage() int {
	return ScalePercentage(v.Scale)
}

// CanZoomIn reports whether zooming in would change the scale.
func (v ViewState) CanZoomIn() bool {
	return v.Scale < ScaleMax
}

// CanZoomOut reports whether zooming out would change the scale.
func (v ViewState) CanZoomOut() bool {
	return v.Scale > ScaleMin
}

// ViewStateUpdate is a partial update of a tab's view state.
// Nil fields are left untouched.
type ViewStateUpdate struct {
	CurrentPage  *int
	Scale        *float64
	ScrollOffset *float64
}

// PageUpdate builds an update that only sets the current page.
func PageUpdate(page int) ViewStateUpdate {
	return ViewStateUpdate{CurrentPage: &page}
}

// ScaleUpdate builds an update that only sets the scale.
func ScaleUpdate(scale float64) ViewStateUpdate {
	return ViewStateUpdate{Scale: &scale}
}

// ScrollUpdate builds an update that only sets the scroll offset.
func ScrollUpdate(offset float64) ViewStateUpdate {
	return ViewStateUpdate{ScrollOffset: &offset}
}

// IsEmpty reports whether the update carries no field.
func (u ViewStateUpdate) IsEmpty() bool {
	return u.CurrentPage == nil && u.Scale == nil && u.ScrollOffset == nil
}
