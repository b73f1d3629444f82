// Package middleware provides observability middleware for router navigations.
//
// This package includes:
//   - Prometheus metrics for navigations and the visited-page cache
//   - OpenTelemetry tracing of every navigation
//
// # Prometheus Metrics
//
//	metrics := middleware.NewMetrics(
//	    middleware.WithNamespace("myapp"),
//	)
//	r.Use(metrics.Middleware())
//	sub := metrics.ObserveCache(r.Cache())
//	defer sub.Unsubscribe()
//
// Metrics collected:
//   - pageroute_navigations_total: navigations by route and status
//   - pageroute_navigation_duration_seconds: lifecycle duration histogram
//   - pageroute_navigation_errors_total: aborted navigations by error code
//   - pageroute_cached_pages: number of pages in the visited-page cache
//   - pageroute_stream_clients: connected cache stream clients
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// The tracing middleware opens a span per navigation and hands the span
// context to guards and hooks:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	))
//
// Guards reach the span with trace.SpanFromContext(ctx).
package middleware
