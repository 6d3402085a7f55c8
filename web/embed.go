// Package web содержит встраиваемые HTML-шаблоны страниц приложения.
package web

import "embed"

//go:embed templates
var Templates embed.FS
