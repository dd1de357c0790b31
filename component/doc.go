// Package component defines the lifecycle contract shared by ssekit
// infrastructure pieces (HTTP server, SSE hub) and a registry that starts
// them in order and stops them in reverse on shutdown.
package component
