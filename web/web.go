// Package web holds the HTML templates served by cmd/server.
package web

import "embed"

// Templates contains layout.html, the shared partials.html and one file per
// page under templates/.
//
//go:embed templates/*.html
var Templates embed.FS
