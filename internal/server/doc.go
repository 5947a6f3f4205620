// Package server provides the MCP server context and the HTTP plumbing that
// hosts the Google Drive addon.
//
// # Key Components
//
// ServerContext holds the addon instance shared by every MCP tool handler,
// together with the optional metrics recorder.
//
// HTTPServer exposes the MCP server over streamable HTTP or SSE, alongside
// Kubernetes health endpoints, and records request metrics.
//
// MetricsServer serves Prometheus metrics on a dedicated port.
package server
