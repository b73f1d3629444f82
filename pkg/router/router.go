package router

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/pkg/routepath"
)

// Router owns the route table, the navigation lifecycle and the
// visited-page cache.
type Router struct {
	root   *routeNode
	config []RouteRecord
	files  []RouteRecord
	names  map[string]*RouteRecord

	logger     *slog.Logger
	middleware []Middleware

	hookMu        sync.RWMutex
	hookSeq       uint64
	beforeEach    []guardEntry
	beforeResolve []guardEntry
	afterEach     []hookEntry

	// navMu serializes navigations.
	navMu sync.Mutex

	// pending holds navigations started from inside a running navigation.
	pendMu  sync.Mutex
	active  bool
	pending []pendingNavigation

	curMu   sync.RWMutex
	current Location

	cache *PageCache
}

type pendingNavigation struct {
	target  string
	options NavigateOptions
}

// maxFollowNavigations bounds the navigations queued by hooks during one
// Navigate call.
const maxFollowNavigations = 16

type guardEntry struct {
	id    uint64
	guard NavigationGuard
}

type hookEntry struct {
	id   uint64
	hook AfterHook
}

// Option configures a Router.
type Option func(*routerOptions)

type routerOptions struct {
	logger     *slog.Logger
	home       Component
	webview    Component
	notFound   Component
	middleware []Middleware
}

// WithLogger sets the router logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *routerOptions) {
		o.logger = logger
	}
}

// WithHome sets the component of the home route.
func WithHome(c Component) Option {
	return func(o *routerOptions) {
		o.home = c
	}
}

// WithWebview sets the component of the webview route.
func WithWebview(c Component) Option {
	return func(o *routerOptions) {
		o.webview = c
	}
}

// WithNotFound sets the component of the catch-all route.
func WithNotFound(c Component) Option {
	return func(o *routerOptions) {
		o.notFound = c
	}
}

// WithMiddleware adds navigation middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(o *routerOptions) {
		o.middleware = append(o.middleware, mw...)
	}
}

// NewRouter creates a router over the scanned routes.
//
// The route configuration is home, webview, the scanned routes with their
// children, then the catch-all NotFound route. Later registrations of the
// same path replace earlier ones in the matcher. Child pages are registered
// under their own paths, so /user/children/detail is navigable like any top
// level page. The default hooks are installed and the cache is seeded with
// the home page.
func NewRouter(routes []RouteRecord, opts ...Option) *Router {
	o := routerOptions{
		home:     NamedComponent(HomeName),
		webview:  NamedComponent(WebviewName),
		notFound: NamedComponent(NotFoundName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	r := &Router{
		root:       newRouteNode(""),
		names:      make(map[string]*RouteRecord),
		files:      routes,
		logger:     o.logger,
		middleware: o.middleware,
		current:    StartLocation.Clone(),
		cache:      NewPageCache(),
	}

	r.config = append(r.config,
		RouteRecord{Name: HomeName, Path: HomePath, Component: o.home},
		RouteRecord{Name: WebviewName, Path: WebviewPath, Component: o.webview},
	)
	r.config = append(r.config, routes...)
	r.config = append(r.config,
		RouteRecord{Name: NotFoundName, Path: NotFoundPath, Component: o.notFound},
	)

	for i := range r.config {
		r.register(&r.config[i])
	}

	r.BeforeEach(r.logBeforeEach)
	r.BeforeResolve(r.noopBeforeResolve)
	r.AfterEach(r.recordAfterEach)

	r.cache.Set(HomePath, Location{Path: HomePath, FullPath: HomePath, Name: HomeName})

	r.logger.Info("router initialized",
		"routes", len(r.config),
		"pages", len(routes),
	)
	return r
}

func (r *Router) register(route *RouteRecord) {
	r.root.insert(route.Path, route)
	r.names[route.Name] = route
	for i := range route.Children {
		r.register(&route.Children[i])
	}
}

// Use adds navigation middleware.
func (r *Router) Use(mw ...Middleware) {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	r.middleware = append(r.middleware, mw...)
}

// Routes returns the full route configuration in registration order.
func (r *Router) Routes() []RouteRecord {
	return append([]RouteRecord(nil), r.config...)
}

// Files returns the routes discovered from page files.
func (r *Router) Files() []RouteRecord {
	return append([]RouteRecord(nil), r.files...)
}

// Lookup returns the route registered under name.
func (r *Router) Lookup(name string) (*RouteRecord, bool) {
	route, ok := r.names[name]
	return route, ok
}

// Cache returns the visited-page cache.
func (r *Router) Cache() *PageCache {
	return r.cache
}

// Current returns the location of the last committed navigation.
func (r *Router) Current() Location {
	r.curMu.RLock()
	defer r.curMu.RUnlock()
	return r.current.Clone()
}

// =============================================================================
// Hooks
// =============================================================================

// BeforeEach registers a guard run first for every navigation.
// The returned function removes the guard.
func (r *Router) BeforeEach(guard NavigationGuard) func() {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	r.hookSeq++
	id := r.hookSeq
	r.beforeEach = append(r.beforeEach, guardEntry{id: id, guard: guard})
	return func() { r.removeGuard(&r.beforeEach, id) }
}

// BeforeResolve registers a guard run after all before-each guards.
// The returned function removes the guard.
func (r *Router) BeforeResolve(guard NavigationGuard) func() {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	r.hookSeq++
	id := r.hookSeq
	r.beforeResolve = append(r.beforeResolve, guardEntry{id: id, guard: guard})
	return func() { r.removeGuard(&r.beforeResolve, id) }
}

// AfterEach registers a hook run after every committed navigation.
// The returned function removes the hook.
func (r *Router) AfterEach(hook AfterHook) func() {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	r.hookSeq++
	id := r.hookSeq
	r.afterEach = append(r.afterEach, hookEntry{id: id, hook: hook})
	return func() {
		r.hookMu.Lock()
		defer r.hookMu.Unlock()
		for i, e := range r.afterEach {
			if e.id == id {
				r.afterEach = append(r.afterEach[:i:i], r.afterEach[i+1:]...)
				return
			}
		}
	}
}

func (r *Router) removeGuard(list *[]guardEntry, id uint64) {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	for i, e := range *list {
		if e.id == id {
			*list = append((*list)[:i:i], (*list)[i+1:]...)
			return
		}
	}
}

func (r *Router) logBeforeEach(ctx context.Context, to, from *Location) error {
	r.logger.Debug("navigation started",
		"nav_id", navID(ctx),
		"path", to.Path,
		"from", from.Path,
	)
	return nil
}

func (r *Router) noopBeforeResolve(context.Context, *Location, *Location) error {
	return nil
}

// recordAfterEach stores the target in the visited-page cache.
func (r *Router) recordAfterEach(ctx context.Context, to, from *Location) {
	r.cache.Set(to.PageKey, *to)
	r.logger.Info("navigated",
		"nav_id", navID(ctx),
		"name", to.Name,
		"path", to.Path,
		"page_key", to.PageKey,
		"from", from.FullPath,
	)
}

func navID(ctx context.Context) string {
	if nav := NavigationFromContext(ctx); nav != nil {
		return nav.ID
	}
	return ""
}

// =============================================================================
// Navigation
// =============================================================================

// Resolve matches target against the route table without navigating.
func (r *Router) Resolve(target string, opts ...NavigateOption) (*Location, error) {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}
	return r.resolve(target, options)
}

func (r *Router) resolve(target string, options NavigateOptions) (*Location, error) {
	if err := routepath.CheckTarget(target); err != nil {
		return nil, errors.New("E211").WithFile(target).Wrap(err)
	}
	u, err := buildURL(target, options)
	if err != nil {
		return nil, errors.New("E211").WithFile(target).Wrap(err)
	}

	path, err := routepath.Clean(u.Path)
	if err != nil {
		return nil, errors.New("E211").WithFile(target).Wrap(err)
	}

	params := make(map[string]string)
	route, ok := r.root.match(splitPath(path), params)
	if !ok {
		return nil, errors.New("E211").
			WithFile(target).
			WithDetail("No route matches " + path + ".")
	}

	loc := &Location{
		Name:    route.Name,
		Path:    path,
		Query:   u.Query(),
		Hash:    fragment(u),
		Matched: route,
	}
	if len(params) > 0 {
		loc.Params = params
	}
	if len(loc.Query) == 0 {
		loc.Query = nil
	}
	loc.FullPath = fullPath(loc.Path, loc.Query, loc.Hash)
	loc.PageKey = PageKey(*loc)
	return loc, nil
}

func fragment(u *url.URL) string {
	if u.Fragment == "" {
		return ""
	}
	return "#" + u.Fragment
}

func fullPath(path string, query url.Values, hash string) string {
	full := path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full + hash
}

// Navigate runs the navigation lifecycle for target: before-each guards,
// before-resolve guards, commit, after-each hooks. Navigations on one
// router run one at a time. A guard error aborts the navigation with an
// E210 error and leaves the current location and cache untouched.
//
// A hook that calls Navigate with the context it was given does not run the
// new navigation in place: the target is resolved, queued and navigated to
// once the running navigation has finished, before the outer Navigate
// returns. This is how hooks redirect.
func (r *Router) Navigate(ctx context.Context, target string, opts ...NavigateOption) (*Location, error) {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	if nav := NavigationFromContext(ctx); nav != nil && nav.router == r {
		to, err := r.resolve(target, options)
		if err != nil {
			return nil, err
		}
		if r.enqueue(pendingNavigation{target: target, options: options}) {
			r.logger.Debug("navigation queued",
				"nav_id", nav.ID,
				"path", to.Path,
			)
			return to, nil
		}
	}

	r.navMu.Lock()
	defer r.navMu.Unlock()

	r.pendMu.Lock()
	r.active = true
	r.pendMu.Unlock()

	to, err := r.navigate(ctx, target, options)
	r.drainPending(ctx)
	return to, err
}

// enqueue queues p behind the running navigation. It reports false when no
// navigation is running, so the caller navigates directly.
func (r *Router) enqueue(p pendingNavigation) bool {
	r.pendMu.Lock()
	defer r.pendMu.Unlock()
	if !r.active {
		return false
	}
	r.pending = append(r.pending, p)
	return true
}

// drainPending runs the navigations queued by hooks. Must be called with
// navMu held.
func (r *Router) drainPending(ctx context.Context) {
	for n := 0; ; n++ {
		r.pendMu.Lock()
		if len(r.pending) == 0 {
			r.active = false
			r.pendMu.Unlock()
			return
		}
		next := r.pending[0]
		r.pending = r.pending[1:]
		if n >= maxFollowNavigations {
			dropped := len(r.pending) + 1
			r.pending = nil
			r.active = false
			r.pendMu.Unlock()
			r.logger.Warn("queued navigations dropped",
				"path", next.target,
				"dropped", dropped,
			)
			return
		}
		r.pendMu.Unlock()

		if _, err := r.navigate(ctx, next.target, next.options); err != nil {
			r.logger.Warn("queued navigation failed",
				"path", next.target,
				"error", err,
			)
		}
	}
}

func (r *Router) navigate(ctx context.Context, target string, options NavigateOptions) (*Location, error) {
	to, err := r.resolve(target, options)
	if err != nil {
		return nil, err
	}
	from := r.Current()

	nav := &Navigation{
		ID:      uuid.NewString(),
		To:      to,
		From:    &from,
		Options: options,
		Started: time.Now(),
		router:  r,
	}
	ctx = WithNavigation(ctx, nav)

	r.hookMu.RLock()
	middleware := append([]Middleware(nil), r.middleware...)
	r.hookMu.RUnlock()

	err = ComposeMiddleware(ctx, nav, middleware, func(ctx context.Context) error {
		return r.run(ctx, nav)
	})
	if err != nil {
		r.logger.Warn("navigation aborted",
			"nav_id", nav.ID,
			"path", to.Path,
			"error", err,
		)
		return nil, errors.FromError(err, "E210").WithFile(to.FullPath)
	}
	return to, nil
}

func (r *Router) run(ctx context.Context, nav *Navigation) error {
	r.hookMu.RLock()
	beforeEach := append([]guardEntry(nil), r.beforeEach...)
	beforeResolve := append([]guardEntry(nil), r.beforeResolve...)
	afterEach := append([]hookEntry(nil), r.afterEach...)
	r.hookMu.RUnlock()

	for _, e := range beforeEach {
		if err := e.guard(ctx, nav.To, nav.From); err != nil {
			return errors.New("E210").Wrap(err)
		}
	}
	for _, e := range beforeResolve {
		if err := e.guard(ctx, nav.To, nav.From); err != nil {
			return errors.New("E210").Wrap(err)
		}
	}

	r.curMu.Lock()
	r.current = nav.To.Clone()
	r.curMu.Unlock()

	for _, e := range afterEach {
		e.hook(ctx, nav.To, nav.From)
	}
	return nil
}
