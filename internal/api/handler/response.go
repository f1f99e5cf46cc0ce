package handler

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Code    int         `json:"code"`
	Error   bool        `json:"error"`
	Title   string      `json:"title,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, status int, message string, data interface{}) {
	respond(w, status, Response{Code: status, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, title, message string) {
	respond(w, status, Response{Code: status, Error: true, Title: title, Message: message})
}
