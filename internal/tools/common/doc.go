// Package common provides helpers shared by the MCP tool packages: handler
// instrumentation and conversion of action envelopes into tool results.
package common
