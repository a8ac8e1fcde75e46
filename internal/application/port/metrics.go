package port

import (
	"time"

	"github.com/bnema/tooldeck/internal/domain/entity"
)

// RenderMetrics records render pipeline activity.
type RenderMetrics interface {
	PageRendered(status entity.RenderStatus)
	PassCompleted(pages int, elapsed time.Duration)
	ThumbnailRendered(status entity.RenderStatus)
	OpenTabs(n int)
}

// NopRenderMetrics discards all measurements.
type NopRenderMetrics struct{}

func (NopRenderMetrics) PageRendered(entity.RenderStatus)      {}
func (NopRenderMetrics) PassCompleted(int, time.Duration)      {}
func (NopRenderMetrics) ThumbnailRendered(entity.RenderStatus) {}
func (NopRenderMetrics) OpenTabs(int)                          {}
