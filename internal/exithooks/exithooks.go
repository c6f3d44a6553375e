// Package exithooks keeps the functions to run right before the process
// terminates.
package exithooks

import (
	"context"
	"sync"

	"github.com/psantos10/elixir/internal/ctxlog"
)

// Hook runs at exit with the status the process is about to exit with.
type Hook func(status int)

// Registry accumulates exit hooks. The zero value is ready to use.
type Registry struct {
	mu    sync.Mutex
	hooks []Hook
}

// Register queues fn to run at exit. Hooks may register further hooks while
// running; Flush picks those up too.
func (r *Registry) Register(fn Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

// Flush runs every registered hook in registration order, then re-checks for
// hooks registered during the run until none remain. A panic inside one hook
// is caught and logged; the remaining hooks still run.
func (r *Registry) Flush(ctx context.Context, status int) {
	logger := ctxlog.FromContext(ctx)
	for {
		r.mu.Lock()
		batch := r.hooks
		r.hooks = nil
		r.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, hook := range batch {
			func() {
				defer func() {
					if rec := recover(); rec != nil {
						logger.Error("Exit hook panicked.", "panic", rec)
					}
				}()
				hook(status)
			}()
		}
	}
}
