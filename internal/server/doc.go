// Package server provides HTTP routing, middleware, and the JSON API that exposes a progress session locally.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Logging] and [Recover] are the middleware used by the serve command.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns internally.
//
// # API Handler
//
// [API] implements [Handler] over a single [progress.Session]:
//
//	GET  /api/state      current view, menu name and load origin
//	POST /api/next       advance; "advanced" is false once every combo was viewed
//	POST /api/reset      rewind the same sequence
//	POST /api/reshuffle  new permutation of the menu
//	GET  /api/menu       current menu
//	GET  /share          302 to the share link
//
// Every mutation persists through the storage facade before the response is written.
// The serve command closes the session after the HTTP server has shut down, which performs the final save.
package server
