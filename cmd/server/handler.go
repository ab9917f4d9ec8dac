package main

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/navidrome/podium/consts"
)

// apiKeyMiddleware rejects requests that do not carry key, either as a bearer
// token or in the api_key query parameter. An empty key disables the check.
func apiKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			provided := r.URL.Query().Get(consts.APIKeyQueryParam)
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, consts.AuthHeaderPrefix) {
				provided = strings.TrimPrefix(auth, consts.AuthHeaderPrefix)
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func chartsJSONHandler(dir string) http.HandlerFunc {
	path := filepath.Join(dir, consts.ChartsJSONFile)
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			http.Error(w, "Charts not generated yet", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("Error reading %s: %v", path, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}
