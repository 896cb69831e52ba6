// Package web holds the embedded single-page client served at the root path.
package web

import "embed"

//go:embed index.html
var Assets embed.FS
