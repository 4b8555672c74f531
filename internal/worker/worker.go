package worker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Pool manages long-running goroutines and ensures graceful shutdown
type Pool struct {
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	errs   chan error
	logger *slog.Logger
}

// NewPool creates a new worker pool
func NewPool(logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		errs:   make(chan error, 16),
		logger: logger,
	}
}

// Go runs a named task until it returns or the pool shuts down.
// A task error other than context cancellation is published on Errors.
func (p *Pool) Go(name string, task func(ctx context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.logger.Info("▶️ [Worker] Task started", "task", name)

		err := task(p.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Error("❌ [Worker] Task failed", "task", name, "error", err)
			select {
			case p.errs <- err:
			default:
			}
			return
		}
		p.logger.Info("⏹️ [Worker] Task stopped", "task", name)
	}()
}

// Errors delivers task failures
func (p *Pool) Errors() <-chan error {
	return p.errs
}

// Shutdown signals all tasks to stop and waits for completion.
// Returns false if the timeout elapsed first.
func (p *Pool) Shutdown(timeout time.Duration) bool {
	p.logger.Info("🛑 [Worker] Initiating graceful shutdown...")

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("✅ [Worker] All tasks completed")
		return true
	case <-time.After(timeout):
		p.logger.Warn("⚠️ [Worker] Shutdown timeout exceeded, some tasks may not have completed",
			"timeout", timeout,
		)
		return false
	}
}

// ServeHTTP returns a task that runs srv until the pool context is cancelled,
// then drains in-flight requests for at most drain.
func ServeHTTP(srv *http.Server, drain time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
