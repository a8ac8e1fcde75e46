package entity

import "math"

// Scale constants for the main document view.
const (
	ScaleDefault = 1.0
	ScaleMin     = 0.25 // 25%
	ScaleMax     = 5.0  // 500%
	ZoomFactor   = 1.25 // multiplicative step
)

// ClampScale constrains a scale to the valid range.
func ClampScale(scale float64) float64 {
	if math.IsNaN(scale) {
		return ScaleDefault
	}
	if scale < ScaleMin {
		return ScaleMin
	}
	if scale > ScaleMax {
		return ScaleMax
	}
	return scale
}

// ZoomInScale returns the next scale up. ok is false once at the upper bound.
func ZoomInScale(scale float64) (next float64, ok bool) {
	if scale >= ScaleMax {
		return scale, false
	}
	return math.Min(ScaleMax, scale*ZoomFactor), true
}

// ZoomOutScale returns the next scale down. ok is false once at the lower bound.
func ZoomOutScale(scale float64) (next float64, ok bool) {
	if scale <= ScaleMin {
		return scale, false
	}
	return math.Max(ScaleMin, scale/ZoomFactor), true
}

// FitWidthScale returns the clamped scale at which a page of nativeWidth
// fills availableWidth.
func FitWidthScale(availableWidth, nativeWidth float64) float64 {
	if nativeWidth <= 0 {
		return ScaleDefault
	}
	return ClampScale(availableWidth / nativeWidth)
}

// ScalePercentage returns the scale as a rounded percentage (e.g., 125 for 1.25).
func ScalePercentage(scale float64) int {
	return int(math.Round(scale * 100))
}
