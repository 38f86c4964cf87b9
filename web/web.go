// Package web embeds the HTML templates served by the registration page.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templates embed.FS

// NewEngine returns a Fiber view engine over the embedded templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		// Only fails for an invalid path literal.
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
