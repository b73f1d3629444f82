package router

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Params are query parameters to add to the target URL.
	Params map[string]any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithParams adds query parameters to the navigation URL.
func WithParams(params map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		if o.Params == nil {
			o.Params = make(map[string]any, len(params))
		}
		for k, v := range params {
			o.Params[k] = v
		}
	}
}

// WithWebviewSource targets the webview route with the given embedded URL.
// Use it with Navigate(ctx, router.WebviewPath, ...).
func WithWebviewSource(src string) NavigateOption {
	return WithParams(map[string]any{WebviewSourceParam: src})
}

// Navigation is one run of the navigation lifecycle.
type Navigation struct {
	// ID identifies the navigation in logs and traces.
	ID string

	// To is the resolved target.
	To *Location

	// From is the location being left.
	From *Location

	// Options are the options the navigation was started with.
	Options NavigateOptions

	// Started is when the navigation began.
	Started time.Time

	router *Router
}

// NavigationGuard runs before a navigation is committed. Returning an error
// aborts the navigation.
type NavigationGuard func(ctx context.Context, to, from *Location) error

// AfterHook runs after a navigation is committed.
type AfterHook func(ctx context.Context, to, from *Location)

type navigationKey struct{}

// WithNavigation returns a context carrying nav.
func WithNavigation(ctx context.Context, nav *Navigation) context.Context {
	return context.WithValue(ctx, navigationKey{}, nav)
}

// NavigationFromContext returns the navigation running in ctx, if any.
func NavigationFromContext(ctx context.Context) *Navigation {
	nav, _ := ctx.Value(navigationKey{}).(*Navigation)
	return nav
}

// buildURL parses target and merges the option params into its query.
func buildURL(target string, opts NavigateOptions) (*url.URL, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %s", target)
	}

	if opts.Params != nil {
		q := u.Query()
		for k, v := range opts.Params {
			q.Set(k, fmt.Sprintf("%v", v))
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}
