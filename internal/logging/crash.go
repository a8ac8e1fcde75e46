package logging

import (
	"context"
	"fmt"
	"runtime/debug"
)

// RecoverError converts a panic in the calling goroutine into an error and
// logs its stack. Use as: defer logging.RecoverError(ctx, "render page", &err).
func RecoverError(ctx context.Context, what string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	FromContext(ctx).Error().
		Str("operation", what).
		Interface("panic", r).
		Bytes("stack", debug.Stack()).
		Msg("recovered panic")
	if errp != nil {
		*errp = fmt.Errorf("%s: panic: %v", what, r)
	}
}
