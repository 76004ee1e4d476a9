package handler

import (
	_ "embed"
	"net/http"
)

//go:embed assets/storefront.css
var storefrontCSS []byte

// ServeStylesheet returns the toast animations and the suggestion and compare widget styles.
func ServeStylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(storefrontCSS)
}
