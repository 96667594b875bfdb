package site

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// FS returns an http.FileSystem rooted at the embedded static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

// Asset returns the embedded file at name, relative to the static root.
func Asset(name string) ([]byte, error) {
	b, err := fs.ReadFile(staticFS, "static/"+name)
	if err != nil {
		return nil, errors.Join(ErrServe, err)
	}
	return b, nil
}
