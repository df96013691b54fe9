// Package server exposes a [models.Store] over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [BasicRouter] applies the stack around the whole [http.ServeMux], so CORS preflight and unmatched requests
// pass through it as well.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Routes
//
//	POST   /api/compositions       save; 200 {"id": "AB12CD"} for codes, 201 {"id": 7} for sequential ids
//	GET    /api/compositions       list summaries, newest first, without tracks
//	GET    /api/compositions/{id}  full composition, or 404
//	DELETE /api/compositions/{id}  {"deleted": bool}
//	GET    /healthz                store reachability
//	GET    /metrics                Prometheus exposition
//	GET    /                       static client (index.html)
//
// Failures are written as {"error": "..."}. Server-side faults never leak their cause to the client.
package server
