// Package web holds the storefront's HTML templates.
package web

import "embed"

//go:embed templates/*.html templates/pages/*.html
var Templates embed.FS
