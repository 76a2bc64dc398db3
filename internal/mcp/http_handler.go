package mcp

import (
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// sessionTimeout closes idle streamable HTTP sessions.
const sessionTimeout = 30 * time.Minute

// NewHTTPHandler serves server over the streamable HTTP transport. The
// Authorization header reaches the auth middleware through the request extra.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: sessionTimeout,
		},
	)
}
