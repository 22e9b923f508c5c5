package effect

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestEffortSwallowsErrors(t *testing.T) {
	assert.True(t, BestEffort(context.Background(), "ok", func(context.Context) error { return nil }))
	assert.False(t, BestEffort(context.Background(), "fails", func(context.Context) error { return errors.New("db down") }))
}

func TestBestEffortRecoversPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		ok := BestEffort(context.Background(), "panics", func(context.Context) error { panic("boom") })
		assert.False(t, ok)
	})
}

func TestBestEffortDetachesFromCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	BestEffort(ctx, "detached", func(inner context.Context) error {
		assert.NoError(t, inner.Err())
		_, hasDeadline := inner.Deadline()
		assert.True(t, hasDeadline)
		return nil
	})
}
