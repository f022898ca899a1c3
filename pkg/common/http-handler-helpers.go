package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// JsonHandler wraps a handler that writes a JSON body, logging instead of
// propagating encode failures. The browse surface never returns a fatal
// error to the client.
func JsonHandler(fn func(w http.ResponseWriter, r *http.Request, enc *json.Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			RespondToOptions(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := fn(w, r, json.NewEncoder(w)); err != nil {
			log.Printf("error handling request: %v", err)
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
	}
	w.WriteHeader(http.StatusAccepted)
}
