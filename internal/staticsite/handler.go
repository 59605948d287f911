// Package staticsite serves the public assets of the schedule browser. It is
// deliberately dumb: byte passthrough with a fixed MIME table.
package staticsite

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/agendalivre/agenda/pkg/logging"
)

var mimeTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".svg":  "image/svg+xml; charset=utf-8",
	".png":  "image/png",
	".ico":  "image/x-icon",
}

const defaultMIME = "application/octet-stream"

// Handler serves files under a public root, with "/" mapped to index.html.
type Handler struct {
	root   string
	logger *logging.Logger
}

func New(root string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{root: root, logger: logger.Named("staticsite")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path
	if name == "/" || name == "" {
		name = "/index.html"
	}

	// Path traversal guard: drop every ".." segment before resolution.
	name = strings.ReplaceAll(name, "..", "")
	name = path.Clean("/" + name)

	buf, err := os.ReadFile(filepath.Join(h.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("static read failed", "path", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	mime, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		mime = defaultMIME
	}

	w.Header().Set("Content-Type", mime)
	if strings.HasPrefix(mime, "text/") {
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=604800")
	}
	_, _ = w.Write(buf)
}

// Healthz is the liveness probe shared by both binaries.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
