// Package groutine starts goroutines carrying a name in their context and
// pprof labels, so profiles and logs can tell scheduler and transport
// goroutines apart.
package groutine

import (
	"context"
	"runtime/pprof"
	"sync"
)

type ctxKey string

const goroutineNameKey ctxKey = "goroutine_name"

// Go starts fn in a goroutine labelled with name.
// If parentCtx is nil, context.Background() is used.
//
//	groutine.Go(ctx, "notify-scheduler-1", func(ctx context.Context) {
//	    // work until ctx is done
//	})
func Go(parentCtx context.Context, name string, fn func(ctx context.Context)) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}

	labels := pprof.Labels("goroutine_name", name)

	go pprof.Do(parentCtx, labels, func(ctx context.Context) {
		fn(context.WithValue(ctx, goroutineNameKey, name))
	})
}

// GoTracked is Go with wg.Add/wg.Done bracketing fn
func GoTracked(parentCtx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	Go(parentCtx, name, func(ctx context.Context) {
		defer wg.Done()
		fn(ctx)
	})
}

// GetName retrieves the goroutine name from the context.
func GetName(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(goroutineNameKey).(string); ok {
		return s
	}
	return ""
}
