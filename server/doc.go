// Package server provides the HTTP server for ssekit applications using
// Gin with HTTP/2 h2c support, so event streams can multiplex over a
// single cleartext connection.
//
// The server follows the component pattern with lifecycle management,
// health endpoints, and configurable middleware.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: Panic recovery with structured logging
//   - RequestID: Request ID generation and propagation
//   - CORS: Cross-origin resource sharing configuration
//   - BodySizeLimit: Request body size limits
//   - RequestLogger: Request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: Health check aggregation over registered components
//   - /info: Service version and build information
package server
