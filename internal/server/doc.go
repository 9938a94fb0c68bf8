// Package server provides HTTP routing, middleware, and the handlers of the Grand web surface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method-qualified patterns.
//
// # Handlers
//
// [ProxyHandler] forwards browser calls to the content backend so the backend address never
// reaches the client. Upstream errors keep their status; network failures answer 502 on the
// /api/proxy routes and 500 elsewhere.
//
// [AIHandler] runs the stateless generation routes. Results are returned, never stored.
//
// [AppHandler] serves the per-device surfaces: session, profile, onboarding, the weekly plan,
// discovery, events, activity, feedback, export and hogar mode. Devices are identified by a
// cookie set by [DeviceMiddleware]; there are no accounts.
//
// # Observability
//
// [LoggingMiddleware] logs every request with charmbracelet/log and feeds [Metrics], which are
// exposed for Prometheus on /metrics. /health answers while the process is up.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
