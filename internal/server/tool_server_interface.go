// Package server provides the MCP server implementation for the
// boardsite tool gateway.
package server

// ArticleToolServer defines the interface for the MCP server that
// handles article and site-configuration tool calls from MCP clients.
type ArticleToolServer interface {
	// Initialize initializes the server with dependencies and configurations.
	Initialize() error

	// Start starts the MCP server on the specified transport.
	Start() error

	// Stop gracefully shuts down the MCP server.
	Stop() error
}
