package actionkit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Middleware decorates a Tool's Execute. Name and Schemas pass through unchanged, so a wrapped
// tool exposes exactly the same actions.
type Middleware func(Tool) Tool

// Chain wraps t so that middlewares[0] runs first.
func Chain(t Tool, middlewares ...Middleware) Tool {
	for i := len(middlewares) - 1; i >= 0; i-- {
		t = middlewares[i](t)
	}
	return t
}

// ExecuteFunc has the signature of Tool.Execute.
type ExecuteFunc func(ctx context.Context, action string, args map[string]any) (any, error)

// Intercept builds a Middleware from a function that receives the next Execute.
func Intercept(fn func(ctx context.Context, action string, args map[string]any, next ExecuteFunc) (any, error)) Middleware {
	return func(t Tool) Tool {
		return &intercepted{Tool: t, fn: fn}
	}
}

type intercepted struct {
	Tool
	fn func(ctx context.Context, action string, args map[string]any, next ExecuteFunc) (any, error)
}

func (w *intercepted) Execute(ctx context.Context, action string, args map[string]any) (any, error) {
	return w.fn(ctx, action, args, w.Tool.Execute)
}

// WithLogging logs every action call at debug level and failures at error level, with the
// qualified action name and the call duration.
func WithLogging(logger zerolog.Logger) Middleware {
	return func(t Tool) Tool {
		return Intercept(func(ctx context.Context, action string, args map[string]any, next ExecuteFunc) (any, error) {
			qualified := QualifiedName(t.Name(), action)
			logger.Debug().Str("action", qualified).Int("args", len(args)).Msg("action start")
			began := time.Now()
			res, err := next(ctx, action, args)
			elapsed := time.Since(began)
			if err != nil {
				logger.Error().Err(err).Str("action", qualified).Dur("duration", elapsed).Msg("action error")
				return nil, err
			}
			logger.Debug().Str("action", qualified).Dur("duration", elapsed).Msg("action end")
			return res, nil
		})(t)
	}
}

// WithRecovery turns a panicking action into a SystemError.
func WithRecovery() Middleware {
	return Intercept(func(ctx context.Context, action string, args map[string]any, next ExecuteFunc) (res any, err error) {
		defer func() {
			if p := recover(); p != nil {
				res, err = nil, &SystemError{Err: &panicError{p: p}}
			}
		}()
		return next(ctx, action, args)
	})
}

// WithTimeout gives every action call a deadline of d. A non-positive d leaves calls unbounded.
func WithTimeout(d time.Duration) Middleware {
	return Intercept(func(ctx context.Context, action string, args map[string]any, next ExecuteFunc) (any, error) {
		if d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return next(ctx, action, args)
	})
}
