// Package site serves the embedded browser dashboard.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Prefix is the path the dashboard UI is mounted under.
const Prefix = "/ui/"

// ErrServe is returned when the embedded assets cannot be opened.
var ErrServe = errors.New("dashboard site serve failed")

// Register attaches the dashboard UI to mux. GET / redirects to Prefix.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle(Prefix, http.StripPrefix(Prefix, http.FileServer(FS())))
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler redirects the bare root to the dashboard.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET /. Anything other than the exact root is not found.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, Prefix, http.StatusFound)
}
