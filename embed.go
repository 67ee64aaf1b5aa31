package coroscal

import "embed"

// WebFS holds the built frontend, served by the HTTP server.
//
//go:embed web/dist
var WebFS embed.FS
