package handlers

import (
	"encoding/json"
	"net/http"
)

func plain(w http.ResponseWriter) {
	http.Error(w, "Bad Request", http.StatusBadRequest) // want "envelopecheck: handlers must answer with a JSON envelope, not http.Error"
}

func enveloped(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": nil, "error": "Bad Request"})
}
