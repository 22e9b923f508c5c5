// Package effect runs side effects whose failure must never fail the caller.
package effect

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a best-effort effect that has no deadline of its own.
const DefaultTimeout = 5 * time.Second

// BestEffort runs fn and logs any error or panic instead of returning it.
// fn gets a context that survives cancellation of ctx. It reports whether fn
// succeeded, for callers that want to count failures.
func BestEffort(ctx context.Context, name string, fn func(context.Context) error) (ok bool) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("effect", name).Str("panic", fmt.Sprint(p)).Msg("non-critical effect panicked")
			ok = false
		}
	}()

	if err := fn(ctx); err != nil {
		log.Warn().Err(err).Str("effect", name).Msg("non-critical effect failed")
		return false
	}
	return true
}
