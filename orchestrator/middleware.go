package orchestrator

import (
	"context"
	"time"

	"github.com/edupilot-ai/edupilot/logging"
)

// GenerationCall is one invocation of an external generation step. Outputs
// are captured by the closure; middleware only sees the call outcome.
type GenerationCall func(ctx context.Context) error

// Middleware wraps a generation call, receiving the step name for
// diagnostics. Middleware runs outermost first, like an HTTP middleware
// chain.
type Middleware func(name string, next GenerationCall) GenerationCall

// Chain composes middleware into one.
func Chain(middleware ...Middleware) Middleware {
	return func(name string, next GenerationCall) GenerationCall {
		for i := len(middleware) - 1; i >= 0; i-- {
			next = middleware[i](name, next)
		}
		return next
	}
}

// TimingMiddleware logs latency and outcome of every generation-step call.
func TimingMiddleware(logger logging.Logger) Middleware {
	return func(name string, next GenerationCall) GenerationCall {
		return func(ctx context.Context) error {
			start := time.Now()
			err := next(ctx)
			if tl, ok := logger.(*logging.TurnLogger); ok {
				tl.LogGenerationCall(name, time.Since(start), err)
				return err
			}
			if err != nil {
				logger.Error("generation step failed", "generation_step", name, "duration", time.Since(start).String(), "error", err)
			} else {
				logger.Debug("generation step completed", "generation_step", name, "duration", time.Since(start).String())
			}
			return err
		}
	}
}

// invoke runs fn through the configured middleware chain.
func (o *Orchestrator) invoke(ctx context.Context, name string, fn GenerationCall) error {
	return Chain(o.middleware...)(name, fn)(ctx)
}
