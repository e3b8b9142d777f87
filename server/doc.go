// Package server exposes the transformation service over HTTP using Gin,
// with h2c so clients may speak HTTP/2 without TLS.
//
// # Routes
//
//   - POST /api/v1/transform: run a preparation over a JSON envelope or CSV
//   - GET /api/v1/actions: list the registered actions
//   - GET /api/v1/metadata/:stepId: cached metadata of a step
//   - GET /health: component health aggregation
//   - GET /version: build version information
//
// # Middleware
//
// Built-in middleware (server/middleware) is applied around the root
// handler: panic recovery, request ids, CORS, a body-size limit and request
// logging.
package server
