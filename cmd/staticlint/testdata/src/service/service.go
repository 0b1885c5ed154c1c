package service

import "net/http"

func plain(w http.ResponseWriter) {
	http.Error(w, "Bad Request", http.StatusBadRequest)
}
