// Package cmd implements the command-line interface for driveaddon.
//
// This package provides the following commands:
//   - list: List the files in a Drive folder
//   - delete: Move a Drive file to trash
//   - download: Download or export a Drive file
//   - selftest: Run the addon self-test
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// Action commands print the response envelope as JSON and exit non-zero when
// its code is outside 2xx.
package cmd
