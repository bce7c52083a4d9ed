package handlers

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// StaticHandler serves the embedded narration page
func (h *Handler) StaticHandler() http.Handler {
	content, err := fs.Sub(staticFS, "static")
	if err != nil {
		slog.Error("Embedded static files unavailable", "err", err)
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(content))
}
