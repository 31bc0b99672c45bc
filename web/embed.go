// Package web provides embedded static assets (CSS, JS) for the site: the
// swipe gesture bridge, the chat stream reader and speech playback. They
// are served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
