// Package router implements convention-based page routing and the
// navigation lifecycle around it.
//
// The router provides:
//   - Page discovery from a source.Source (local directory or S3 prefix)
//   - Route name and path inference from page file keys
//   - A segment tree for matching URLs against the route table
//   - Before-each, before-resolve and after-each navigation hooks
//   - A visited-page cache published as a reactive stream
//
// # File Structure Convention
//
// Every page is an index file inside its own directory:
//
//	src/pages/
//	├── user/
//	│   ├── index.go                → user          /user
//	│   ├── views/card.go           → ignored (shared view)
//	│   └── children/
//	│       └── detail/index.go     → user-detail   /user/children/detail
//	├── frame_work/index.go         → framework     /frame_work
//	└── system/role/index.go        → system-role   /system/role
//
// Underscores are dropped from names and path separators become dashes.
// Index files under a children directory are nested pages of the root page
// next to them. A page declaring
//
//	const Controller = "UserController"
//
// is listed by Router.ControllerPages.
//
// Navigation targets are cleaned before matching: "/user/", "user" and
// "/role/../user" all resolve to "/user". Absolute URLs are rejected.
//
// # Usage
//
//	scanner := router.NewScanner(source.Dir("src/pages"))
//	routes, err := scanner.Scan(ctx)
//
//	r := router.NewRouter(routes, router.WithLogger(logger))
//	loc, err := r.Navigate(ctx, "/webview?src=https://example.com")
//	// loc.PageKey == "/webview_https://example.com"
//
//	sub := r.Cache().Stream().Subscribe(func(pages []router.Location) {
//	    // every visited page, in first-visit order
//	})
package router
