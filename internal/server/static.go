package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// handleStatic serves the display and admin pages from dir. A path without
// an extension also matches the .html file of that name, so /display
// serves display.html.
func handleStatic(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		clean := filepath.Clean("/" + r.URL.Path)
		if clean != "/" && filepath.Ext(clean) == "" {
			page := filepath.Join(dir, clean+".html")
			if info, err := os.Stat(page); err == nil && !info.IsDir() {
				http.ServeFile(w, r, page)
				return
			}
		}
		if strings.HasPrefix(filepath.Base(clean), ".") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}
