// Package web serves the JSON API and a small embedded search page over HTTP.
// Binds to localhost by default; there is no auth.
package web

import "embed"

//go:embed static/index.html
var staticFS embed.FS
