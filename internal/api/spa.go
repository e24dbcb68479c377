package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Fingerprinted build output; safe to cache forever.
var immutableAssetPrefixes = []string{"_next/static/", "assets/"}

// WithSPA serves the web front end from webDir and forwards /api/ to apiHandler.
// Unknown paths fall back to index.html so client-side routes work.
func WithSPA(apiHandler http.Handler, webDir string) http.Handler {
	fileServer := http.FileServer(http.Dir(webDir))
	indexPath := filepath.Join(webDir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			apiHandler.ServeHTTP(w, r)
			return
		}

		cleanPath := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if cleanPath == "." || cleanPath == "" {
			serveIndex(w, r, indexPath)
			return
		}

		fullPath := filepath.Join(webDir, filepath.FromSlash(cleanPath))
		if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
			setAssetCacheControl(w, cleanPath)
			fileServer.ServeHTTP(w, r)
			return
		}

		serveIndex(w, r, indexPath)
	})
}

func serveIndex(w http.ResponseWriter, r *http.Request, indexPath string) {
	if _, err := os.Stat(indexPath); err == nil {
		setNoStore(w)
		http.ServeFile(w, r, indexPath)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("index.html not found"))
}

func setAssetCacheControl(w http.ResponseWriter, cleanPath string) {
	for _, prefix := range immutableAssetPrefixes {
		if strings.HasPrefix(cleanPath, prefix) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
			return
		}
	}
	setNoStore(w)
}

func setNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}
