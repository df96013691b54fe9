package server

import (
	"fmt"
	"net/http"
	"os"
)

// StaticHandler serves the browser client from a directory; "/" resolves to its index.html.
type StaticHandler struct {
	files http.Handler
}

// NewStaticHandler creates a [StaticHandler] rooted at dir.
func NewStaticHandler(dir string) (*StaticHandler, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static directory: %s is not a directory", dir)
	}
	return &StaticHandler{files: http.FileServer(http.Dir(dir))}, nil
}

// Routes returns the HTTP routes this handler serves.
//
// "GET /" is the least specific pattern, so the API routes always win.
func (h *StaticHandler) Routes() []string {
	return []string{"GET /"}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
