package router

import "context"

// Middleware wraps a whole navigation, guards and hooks included.
type Middleware interface {
	// Handle processes the navigation and optionally calls next.
	// Return an error to abort the navigation.
	Handle(ctx context.Context, nav *Navigation, next func(context.Context) error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx context.Context, nav *Navigation, next func(context.Context) error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx context.Context, nav *Navigation, next func(context.Context) error) error {
	return f(ctx, nav, next)
}

// ComposeMiddleware builds a handler chain from middleware and a final handler.
// Middleware is executed in order (first to last), with the handler at the end.
func ComposeMiddleware(ctx context.Context, nav *Navigation, mw []Middleware, handler func(context.Context) error) error {
	if len(mw) == 0 {
		return handler(ctx)
	}

	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func(ctx context.Context) error {
			return m.Handle(ctx, nav, next)
		}
	}
	return chain(ctx)
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, nav *Navigation, next func(context.Context) error) error {
		return ComposeMiddleware(ctx, nav, middleware, next)
	})
}

// Only runs mw only for navigations matching condition.
func Only(condition func(nav *Navigation) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx context.Context, nav *Navigation, next func(context.Context) error) error {
		if !condition(nav) {
			return next(ctx)
		}
		return mw.Handle(ctx, nav, next)
	})
}
