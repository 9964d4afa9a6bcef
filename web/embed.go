// Package web holds the HTML templates compiled into the server binary.
package web

import "embed"

//go:embed templates
var Templates embed.FS
